package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the config file looked up when CONFIG_PATH is not set.
const DefaultPath = "./config.yaml"

// Load reads configuration from the file named by CONFIG_PATH (fallback
// DefaultPath) and environment variables. See LoadFrom.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_PATH"))
}

// LoadFrom reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// An empty path means DefaultPath, and a missing default file is not an error:
// configuration then comes from ENV + defaults only. A missing explicit path is.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	explicitPath := path != ""
	if !explicitPath {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
