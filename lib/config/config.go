// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for the Trackd service.
type Config struct {
	// Environment identifies the deployment type (development,
	// staging, production).
	Environment Environment `yaml:"environment" json:"environment"`

	// Listen is the TCP address the HTTP API binds to.
	Listen string `yaml:"listen" json:"listen"`

	// Database configures the SQLite issue store.
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log" json:"log"`

	// Per-environment overrides, applied after the base config.
	Development *Overrides `yaml:"development,omitempty" json:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty" json:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty" json:"production,omitempty"`
}

// DatabaseConfig configures the SQLite issue store.
type DatabaseConfig struct {
	// Path is the SQLite database file. ${TRACKD_ROOT} and ${HOME}
	// are expanded.
	Path string `yaml:"path" json:"path"`

	// PoolSize is the connection pool size. Defaults to 4 when zero.
	PoolSize int `yaml:"pool_size" json:"pool_size"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format" json:"format"`
}

// Overrides contains the fields that can be overridden per
// environment.
type Overrides struct {
	Listen   string          `yaml:"listen,omitempty" json:"listen,omitempty"`
	Database *DatabaseConfig `yaml:"database,omitempty" json:"database,omitempty"`
	Log      *LogConfig      `yaml:"log,omitempty" json:"log,omitempty"`
}

// Default returns the default configuration. These exist so every
// field has a sensible zero-value base before the file is merged in,
// not as a substitute for the file.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	root := filepath.Join(homeDir, ".local", "share", "trackd")

	return &Config{
		Environment: Development,
		Listen:      ":8080",
		Database: DatabaseConfig{
			Path:     filepath.Join(root, "trackd.db"),
			PoolSize: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from the TRACKD_CONFIG environment
// variable. There are no fallbacks: if TRACKD_CONFIG is not set, Load
// fails.
func Load() (*Config, error) {
	path := os.Getenv("TRACKD_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("TRACKD_CONFIG environment variable not set; " +
			"set it to the path of your trackd config file, or use --config")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, applies the
// environment-specific overrides, and expands ${VAR} patterns in
// paths. The file extension selects the parser: .json/.jsonc use the
// JSONC parser, everything else is YAML.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides merges the section matching the configured
// environment into the base values.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Listen != "" {
		c.Listen = overrides.Listen
	}
	if overrides.Database != nil {
		if overrides.Database.Path != "" {
			c.Database.Path = overrides.Database.Path
		}
		if overrides.Database.PoolSize != 0 {
			c.Database.PoolSize = overrides.Database.PoolSize
		}
	}
	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// database path.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Database.Path = expandVars(c.Database.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Listen == "" {
		errs = append(errs, fmt.Errorf("listen is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
