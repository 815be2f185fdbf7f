package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve in minimal images
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// Directory of the .sql migrations applied on Postgres
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Anthropic configuration
	AnthropicAPIKey     string
	AnthropicURL        string
	AnthropicModel      string
	AnthropicTimeout    time.Duration
	AnthropicMaxRetries int

	// S3 configuration for whiteboard photos
	S3Bucket  string
	AWSRegion string

	// Logging
	LogLevel    string
	LogFile     string
	LogJSON     bool
	LogToStdout bool

	// Rate limiting of model-backed endpoints
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Timezone that defines calendar days for the yesterday lookup
	Timezone string
}

// lookup resolves one setting from its environment variable and Docker secret
type lookup func(envVar, secret string) string

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	var get lookup
	switch {
	case env.EnvOnly():
		get = func(envVar, _ string) string { return os.Getenv(envVar) }
	case env.SecretsFirst():
		get = func(envVar, secret string) string {
			if v := readSecret(secret); v != "" {
				return v
			}
			return os.Getenv(envVar)
		}
	default:
		get = func(envVar, secret string) string {
			if v := os.Getenv(envVar); v != "" {
				return v
			}
			return readSecret(secret)
		}
	}

	cfg, err := load(env, get)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(env Environment, get lookup) (*Config, error) {
	cfg := &Config{Environment: env}

	cfg.ServerPort = withDefault(get("SERVER_PORT", "server_port"), "8080")
	cfg.ServerHost = withDefault(get("SERVER_HOST", "server_host"), "0.0.0.0")
	cfg.CORSOrigins = splitList(withDefault(get("CORS_ORIGINS", "cors_origins"), "*"))

	cfg.DatabaseURL = get("DATABASE_URL", "database_url")
	cfg.DBHost = withDefault(get("DB_HOST", "db_host"), "localhost")
	cfg.DBPort = withDefault(get("DB_PORT", "db_port"), "5432")
	cfg.DBUser = withDefault(get("DB_USER", "db_user"), "postgres")
	cfg.DBPassword = get("DB_PASSWORD", "db_password")
	cfg.DBName = withDefault(get("DB_NAME", "db_name"), "wod_analyzer")
	cfg.DBSSLMode = withDefault(get("DB_SSL_MODE", "db_ssl_mode"), "disable")
	cfg.SQLitePath = withDefault(get("SQLITE_PATH", "sqlite_path"), "wod_analyzer.db")
	cfg.MigrationsDir = withDefault(get("MIGRATIONS_DIR", "migrations_dir"), "migrations")
	cfg.DBDriver = strings.ToLower(get("DB_DRIVER", "db_driver"))
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverPostgres
		if env.Local() && cfg.DatabaseURL == "" && cfg.DBPassword == "" {
			cfg.DBDriver = DriverSQLite
		}
	}

	cfg.RedisHost = get("REDIS_HOST", "redis_host")
	cfg.RedisPort = withDefault(get("REDIS_PORT", "redis_port"), "6379")
	cfg.RedisPassword = get("REDIS_PASSWORD", "redis_password")
	cfg.RedisURL = get("REDIS_URL", "redis_url")
	redisDB, err := atoiDefault(get("REDIS_DB", "redis_db"), 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	cfg.AnthropicAPIKey = get("ANTHROPIC_API_KEY", "anthropic_api_key")
	if cfg.AnthropicAPIKey == "" {
		if path := os.Getenv("ANTHROPIC_API_KEY_FILE"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read API key file: %w", err)
			}
			cfg.AnthropicAPIKey = strings.TrimSpace(string(data))
		}
	}
	cfg.AnthropicURL = get("ANTHROPIC_API_URL", "anthropic_api_url")
	cfg.AnthropicModel = get("ANTHROPIC_MODEL", "anthropic_model")
	timeout, err := durationDefault(get("ANTHROPIC_TIMEOUT", "anthropic_timeout"), 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid ANTHROPIC_TIMEOUT: %w", err)
	}
	cfg.AnthropicTimeout = timeout
	retries, err := atoiDefault(get("ANTHROPIC_MAX_RETRIES", "anthropic_max_retries"), 3)
	if err != nil {
		return nil, fmt.Errorf("invalid ANTHROPIC_MAX_RETRIES: %w", err)
	}
	cfg.AnthropicMaxRetries = retries

	cfg.S3Bucket = get("S3_BUCKET_NAME", "s3_bucket_name")
	cfg.AWSRegion = get("AWS_REGION", "aws_region")

	cfg.LogLevel = withDefault(get("LOG_LEVEL", "log_level"), "info")
	cfg.LogFile = get("LOG_FILE", "log_file")
	cfg.LogJSON = parseBool(get("LOG_JSON", "log_json"), env.StructuredLogs())
	cfg.LogToStdout = parseBool(get("LOG_TO_STDOUT", "log_to_stdout"), true)

	limit, err := atoiDefault(get("RATE_LIMIT_REQUESTS", "rate_limit_requests"), 20)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	cfg.RateLimitRequests = limit
	window, err := durationDefault(get("RATE_LIMIT_WINDOW", "rate_limit_window"), time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.RateLimitWindow = window

	cfg.Timezone = withDefault(get("APP_TIMEZONE", "app_timezone"), "UTC")

	return cfg, nil
}

// PostgresDSN returns DATABASE_URL or a key/value DSN built from the parts
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether a Redis server was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// S3Enabled reports whether whiteboard photos should be uploaded
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// Location returns the configured timezone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(withDefault(c.Timezone, "UTC"))
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func durationDefault(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	// Bare numbers are seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
