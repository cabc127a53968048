/*
Package config loads and validates server configuration from YAML.

A missing file is not an error: the zero config is filled with defaults so
the server runs out of the box with a local SQLite file. Validation happens
after defaulting, so a bad explicit value always fails loudly.
*/
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           int      `yaml:"port" validate:"required,min=1,max=65535"`
	DBPath         string   `yaml:"db_path" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	DefaultPreset  string   `yaml:"default_preset" validate:"required,oneof=daily weekly biweekly semimonthly monthly quarterly annually"`
	Development    bool     `yaml:"development"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Port:           8080,
		DBPath:         "labor.db",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		DefaultPreset:  "weekly",
	}
}

// Load reads the YAML file at path over the defaults. An empty path yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
