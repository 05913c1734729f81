package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a Config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	lines := make([]string, len(e))
	for i, v := range e {
		lines[i] = v.Error()
	}
	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "must not be empty"})
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, ValidationError{"SHUTDOWN_TIMEOUT", "must be positive"})
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "is required for the sqlite driver"})
		}
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_HOST/DB_NAME", "are required for the postgres driver"})
		}
		// Outside local machines the password must come from CI env or a secret
		if !cfg.Env.IsLocal() && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", fmt.Sprintf("is required in %s environment", cfg.Env)})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.DBMaxOpenConns < 1 {
		errs = append(errs, ValidationError{"DB_MAX_OPEN_CONNS", "must be at least 1"})
	}
	if cfg.RateLimitCreate < 1 {
		errs = append(errs, ValidationError{"RATE_LIMIT_CREATE", "must be at least 1"})
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_WINDOW", "must be positive"})
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{"LOG_FORMAT", fmt.Sprintf("unsupported format %q", cfg.LogFormat)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
