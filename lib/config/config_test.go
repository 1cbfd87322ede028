// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Environment != Development {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Listen)
	}
	if cfg.Database.PoolSize != 4 {
		t.Errorf("Database.PoolSize = %d, want 4", cfg.Database.PoolSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "trackd.yaml", `
environment: production
listen: ":9090"
database:
  path: /var/lib/trackd/trackd.db
  pool_size: 8
log:
  level: warn
  format: text
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Environment != Production {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Listen)
	}
	if cfg.Database.Path != "/var/lib/trackd/trackd.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Database.PoolSize != 8 {
		t.Errorf("Database.PoolSize = %d, want 8", cfg.Database.PoolSize)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeConfig(t, "trackd.jsonc", `{
	// local overrides live in this file
	"environment": "staging",
	"listen": ":3000",
	"database": {
		"path": "/tmp/trackd.db",
	},
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Environment != Staging {
		t.Errorf("Environment = %q, want staging", cfg.Environment)
	}
	if cfg.Listen != ":3000" {
		t.Errorf("Listen = %q, want :3000", cfg.Listen)
	}
	// Unspecified fields keep their defaults.
	if cfg.Database.PoolSize != 4 {
		t.Errorf("Database.PoolSize = %d, want default 4", cfg.Database.PoolSize)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "trackd.yaml", `
environment: production
listen: ":8080"
database:
  path: /tmp/base.db
production:
  listen: ":80"
  log:
    level: error
staging:
  listen: ":8081"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Listen != ":80" {
		t.Errorf("Listen = %q, want production override :80", cfg.Listen)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
	// The staging section must not apply in production.
	if cfg.Database.Path != "/tmp/base.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
}

func TestVariableExpansion(t *testing.T) {
	t.Setenv("TRACKD_TEST_DIR", "/srv/trackd")
	path := writeConfig(t, "trackd.yaml", `
database:
  path: ${TRACKD_TEST_DIR}/issues.db
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Database.Path != "/srv/trackd/issues.db" {
		t.Errorf("Database.Path = %q, want /srv/trackd/issues.db", cfg.Database.Path)
	}
}

func TestVariableExpansionDefault(t *testing.T) {
	got := expandVars("${TRACKD_UNSET_VAR:-/fallback}/db", nil)
	if got != "/fallback/db" {
		t.Errorf("expandVars = %q, want /fallback/db", got)
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	t.Setenv("TRACKD_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Error("Load with unset TRACKD_CONFIG = nil error, want error")
	}
}

func TestLoadFromEnvVar(t *testing.T) {
	path := writeConfig(t, "trackd.yaml", `listen: ":7070"`)
	t.Setenv("TRACKD_CONFIG", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":7070" {
		t.Errorf("Listen = %q, want :7070", cfg.Listen)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.Environment = "qa" },
			wantMsg: "invalid environment",
		},
		{
			name:    "empty listen",
			mutate:  func(c *Config) { c.Listen = "" },
			wantMsg: "listen is required",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantMsg: "database.path is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantMsg: "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantMsg: "log.format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadFileParseError(t *testing.T) {
	path := writeConfig(t, "trackd.yaml", "listen: [unclosed")
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile with malformed YAML = nil error, want error")
	}
}
