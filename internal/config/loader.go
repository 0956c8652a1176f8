package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithEnv loads configuration from a file and applies environment variable overrides.
// An empty path starts from the defaults.
func LoadWithEnv(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	// Apply environment variable overrides
	if listenAddr := os.Getenv("USERAPI_LISTEN_ADDR"); listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	if dbPath := os.Getenv("USERAPI_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if level := os.Getenv("USERAPI_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if format := os.Getenv("USERAPI_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	if enabled := os.Getenv("USERAPI_RATE_LIMIT_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return nil, fmt.Errorf("USERAPI_RATE_LIMIT_ENABLED is invalid: %w", err)
		}
		cfg.RateLimit.Enabled = v
	}

	if redisAddr := os.Getenv("USERAPI_REDIS_ADDR"); redisAddr != "" {
		cfg.RateLimit.Redis.Addr = redisAddr
	}

	// Validate again after env overrides
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after env overrides: %w", err)
	}

	return cfg, nil
}
