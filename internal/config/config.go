package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http"`
	Todo      TodoConfig      `yaml:"todo"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds storage connection settings. MaxConns and the lifetimes
// apply to both drivers, MinConns only to postgres. An in-memory sqlite
// database is always pinned to one connection.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"sqlite"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-default:"todo.db"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// Response status modes.
const (
	// StatusModeCompat answers domain failures with 200 and an "error" body.
	StatusModeCompat = "compat"
	// StatusModeStrict maps every failure class to its conventional 4xx/5xx code.
	StatusModeStrict = "strict"
)

// HTTPConfig holds request-handling settings for the todo API.
type HTTPConfig struct {
	MaxBodyBytes int    `yaml:"max_body_bytes" env:"HTTP_MAX_BODY_BYTES" env-default:"16384"`
	StatusMode   string `yaml:"status_mode"    env:"HTTP_STATUS_MODE"    env-default:"compat"`
}

// TodoConfig holds validation limits for todo records (in characters).
type TodoConfig struct {
	MaxTitleLength       int `yaml:"max_title_length"       env:"TODO_MAX_TITLE_LENGTH"       env-default:"255"`
	MaxDescriptionLength int `yaml:"max_description_length" env:"TODO_MAX_DESCRIPTION_LENGTH" env-default:"1023"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"             env:"RATE_LIMIT_ENABLED"             env-default:"false"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"RATE_LIMIT_REQUESTS_PER_SECOND" env-default:"20"`
	Burst             int           `yaml:"burst"               env:"RATE_LIMIT_BURST"               env-default:"40"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"1m"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}
