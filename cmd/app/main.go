package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stockdesk/configs"
	"stockdesk/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "stockdesk",
	Short:         "Stock dashboard API with an ML prediction proxy",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stockdesk: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads and validates configuration and builds the root logger
func bootstrap() (*configs.Config, *logger.Logger, error) {
	cfg, err := configs.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
