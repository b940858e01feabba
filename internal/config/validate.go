package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := c.HTTP.validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}

	if c.Todo.MaxTitleLength <= 0 {
		return fmt.Errorf("todo.max_title_length must be > 0 (got %d)", c.Todo.MaxTitleLength)
	}
	if c.Todo.MaxDescriptionLength <= 0 {
		return fmt.Errorf("todo.max_description_length must be > 0 (got %d)", c.Todo.MaxDescriptionLength)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limit.requests_per_second must be > 0 (got %v)", c.RateLimit.RequestsPerSecond)
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate_limit.burst must be > 0 (got %d)", c.RateLimit.Burst)
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	switch d.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("driver must be %q or %q (got %q)", DriverPostgres, DriverSQLite, d.Driver)
	}

	if strings.TrimSpace(d.DSN) == "" {
		return fmt.Errorf("dsn is required")
	}

	if d.Driver == DriverPostgres && d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns (%d) must not exceed max_conns (%d)", d.MinConns, d.MaxConns)
	}

	return nil
}

func (h *HTTPConfig) validate() error {
	if h.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be > 0 (got %d)", h.MaxBodyBytes)
	}

	h.StatusMode = strings.ToLower(strings.TrimSpace(h.StatusMode))
	switch h.StatusMode {
	case StatusModeCompat, StatusModeStrict:
	default:
		return fmt.Errorf("status_mode must be %q or %q (got %q)", StatusModeCompat, StatusModeStrict, h.StatusMode)
	}

	return nil
}

// IsStrict reports whether failures use conventional 4xx/5xx status codes.
func (h HTTPConfig) IsStrict() bool {
	return h.StatusMode == StatusModeStrict
}
