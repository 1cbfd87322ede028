// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/trackd-project/trackd/lib/clock"
	"github.com/trackd-project/trackd/lib/config"
	"github.com/trackd-project/trackd/lib/issuestore"
	"github.com/trackd-project/trackd/lib/service"
	"github.com/trackd-project/trackd/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   string
		listenAddr   string
		databasePath string
		showVersion  bool
	)

	pflag.StringVar(&configPath, "config", "", "path to the config file (overrides TRACKD_CONFIG)")
	pflag.StringVar(&listenAddr, "listen", "", "TCP listen address (overrides the config file)")
	pflag.StringVar(&databasePath, "database", "", "SQLite database path (overrides the config file)")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("trackd %s\n", version.Info())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	if databasePath != "" {
		cfg.Database.Path = databasePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()

	store, err := issuestore.Open(issuestore.Config{
		Path:     cfg.Database.Path,
		PoolSize: cfg.Database.PoolSize,
		Clock:    clk,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("opening issue store: %w", err)
	}
	defer store.Close()
	logger.Info("issue store open", "path", cfg.Database.Path)

	server := service.NewHTTPServer(service.HTTPServerConfig{
		Address:         cfg.Listen,
		Handler:         newHandler(store, clk, logger),
		ShutdownTimeout: 10 * time.Second,
		Logger:          logger,
	})

	logger.Info("trackd starting",
		"version", version.Short(),
		"environment", string(cfg.Environment),
		"listen", cfg.Listen,
	)
	return server.Serve(ctx)
}

// loadConfig resolves the configuration: the --config flag wins, then
// TRACKD_CONFIG, then built-in defaults when neither names a file.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	if os.Getenv("TRACKD_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// newLogger builds the process logger from the log config. Validate
// has already constrained level and format to known values.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, options))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, options))
}
