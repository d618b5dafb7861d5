package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Prices struct {
		// Provider is "yahoo" or "csv".
		Provider string `yaml:"provider"`
		CSVDir   string `yaml:"csv_dir"`
		// SQLitePath enables the local bar cache; empty disables it.
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"prices"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine - everything has a
// default or an env override.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("DIPBACKTEST_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DIPBACKTEST_PRICE_PROVIDER"); v != "" {
		cfg.Prices.Provider = v
	}
	if v := os.Getenv("DIPBACKTEST_PRICE_CSV_DIR"); v != "" {
		cfg.Prices.CSVDir = v
	}
	if v := os.Getenv("DIPBACKTEST_SQLITE_PATH"); v != "" {
		cfg.Prices.SQLitePath = v
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3009
	}
	if cfg.Prices.Provider == "" {
		cfg.Prices.Provider = "yahoo"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Prices.Provider != "yahoo" && c.Prices.Provider != "csv" {
		return fmt.Errorf("prices.provider must be yahoo or csv, got %q", c.Prices.Provider)
	}
	if c.Prices.Provider == "csv" && c.Prices.CSVDir == "" {
		return fmt.Errorf("prices.csv_dir is required for the csv provider")
	}
	return nil
}
