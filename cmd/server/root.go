package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoicer/internal/config"
	"invoicer/pkg/logger"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "invoicer",
		Short:         "Invoicing and inventory API server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default "+config.DefaultFile+" when present)")

	root.AddCommand(newServeCmd(&configPath), newMigrateCmd(&configPath))
	return root
}

// bootstrap loads configuration and installs the process logger.
func bootstrap(configPath string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)
	return cfg, log, nil
}
