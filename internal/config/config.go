package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Out of the box the tool needs no
// configuration at all: the registry lives in compounds.db in the working
// directory and the calculator binds to localhost. A YAML file or DILUTE_*
// environment variables override the defaults.
type Config struct {
	DBPath string `yaml:"db_path" envconfig:"DB"`
	Addr   string `yaml:"addr" envconfig:"ADDR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath: "compounds.db",
		Addr:   "127.0.0.1:8701",
	}
}

// Path returns the configuration file path, ~/.config/dilute/config.yaml
// unless DILUTE_CONFIG points elsewhere.
func Path() string {
	if path := os.Getenv("DILUTE_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dilute", "config.yaml")
}

// Load builds the configuration: defaults, then the YAML file if one exists,
// then environment variable overrides.
func Load() (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(Path()); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("DILUTE", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	return cfg, nil
}
