package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storedash/internal/backend/memory"
	"storedash/internal/backend/rest"
	applog "storedash/internal/log"
)

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// REST specific
	BaseURL string
	Timeout time.Duration
	Jar     http.CookieJar
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case RESTBackend:
		client, err := rest.New(config.BaseURL, config.Timeout, config.Jar, f.logger)
		if err != nil {
			return nil, fmt.Errorf("initialize rest backend: %w", err)
		}
		f.logger.Info("Initialized REST backend", applog.FieldPath, config.BaseURL)
		return &BackendResult{Backend: client}, nil
	case MemoryBackend:
		store := memory.New()
		f.logger.Info("Initialized memory backend")
		return &BackendResult{Backend: store}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
