// Package cli provides common initialization for cmd/storedash: env
// loading, logging, config validation, state database and cookie jar
// setup.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"

	"github.com/joho/godotenv"

	"storedash/internal/config"
	applog "storedash/internal/log"
	"storedash/internal/storage"
)

// SetupLogger initializes structured logging at the given level and sets
// it as the process default.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// InitStateDB opens the local state database at the given path.
// Returns the database or exits the process on failure.
func InitStateDB(logger *applog.Logger, dbPath string) *storage.StateDB {
	state, err := storage.NewStateDB(dbPath)
	if err != nil {
		logger.Error("Failed to open state database", applog.FieldError, err, applog.FieldPath, dbPath)
		os.Exit(1)
	}
	return state
}

// NewSessionJar builds a cookie jar seeded with the cookies persisted in
// the state database, so the backend session survives process restarts.
func NewSessionJar(ctx context.Context, state *storage.StateDB, backendURL string) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	base, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}

	saved, err := state.Cookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load persisted cookies: %w", err)
	}
	if len(saved) > 0 {
		jar.SetCookies(base, saved)
	}
	return jar, nil
}

// PersistSessionJar writes the jar's cookies for the backend URL back to
// the state database. Call it after commands that may refresh the session.
func PersistSessionJar(ctx context.Context, state *storage.StateDB, jar http.CookieJar, backendURL string) error {
	base, err := url.Parse(backendURL)
	if err != nil {
		return fmt.Errorf("parse backend URL: %w", err)
	}
	return state.SaveCookies(ctx, jar.Cookies(base))
}
