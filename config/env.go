package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads the environment from CI and ENV.
// CI=true wins over ENV; unknown or empty ENV means development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch env := Environment(strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))); env {
	case Production, Test, Development:
		return env
	default:
		return Development
	}
}

// Local reports whether the service runs on a developer machine,
// where an empty database setup falls back to a SQLite file.
func (e Environment) Local() bool {
	return e == Development
}

// SecretsFirst reports whether Docker secrets override environment variables
func (e Environment) SecretsFirst() bool {
	return e == Production
}

// EnvOnly reports whether settings come from environment variables alone
func (e Environment) EnvOnly() bool {
	return e == CI
}

// StructuredLogs is the default for LOG_JSON
func (e Environment) StructuredLogs() bool {
	return e == Production
}
