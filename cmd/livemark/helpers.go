package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"livemark/internal/app"
	"livemark/internal/config"
)

// loadConfig resolves configuration and builds the process logger, applying
// the persistent CLI overrides.
func loadConfig(cmd *cobra.Command) (config.Config, *app.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading configuration: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}

	logCfg := app.DefaultLoggerConfig()
	logCfg.Level = app.ParseLogLevel(cfg.Log.Level)
	return cfg, app.NewLogger(logCfg), nil
}
