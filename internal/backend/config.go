package backend

import (
	"fmt"

	"storedash/internal/config"
)

// FromAppConfig converts the application config to backend config. The
// cookie jar is transport state owned by the caller and is attached after.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:    backendType,
		BaseURL: appConfig.BackendURL,
		Timeout: appConfig.HTTPTimeout,
	}, nil
}
