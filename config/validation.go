package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequireAnthropicKey bool
	RequireDBPassword   bool
	AllowSQLite         bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			AllowSQLite: true,
		},
		Test: {
			AllowSQLite: true,
		},
		CI: {
			RequireDBPassword: true,
			AllowSQLite:       true,
		},
		Production: {
			RequireAnthropicKey: true,
			RequireDBPassword:   true,
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Environment]

	var errs []ValidationError

	switch cfg.DBDriver {
	case DriverPostgres:
		if reqs.RequireDBPassword && cfg.DatabaseURL == "" && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "required when DATABASE_URL is not set"})
		}
	case DriverSQLite:
		if !reqs.AllowSQLite {
			errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("sqlite is not allowed in %s", cfg.Environment)})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if reqs.RequireAnthropicKey && cfg.AnthropicAPIKey == "" {
		errs = append(errs, ValidationError{"ANTHROPIC_API_KEY", "required"})
	}
	if cfg.AnthropicMaxRetries < 0 {
		errs = append(errs, ValidationError{"ANTHROPIC_MAX_RETRIES", "must not be negative"})
	}
	if cfg.AnthropicTimeout <= 0 {
		errs = append(errs, ValidationError{"ANTHROPIC_TIMEOUT", "must be positive"})
	}
	if cfg.RateLimitRequests < 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_REQUESTS", "must not be negative"})
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_WINDOW", "must be positive"})
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, ValidationError{"APP_TIMEZONE", err.Error()})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
