// Package cmd implements the paradigms command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/umk/paradigms/internal/config"
	"github.com/umk/paradigms/internal/logs"
	"github.com/umk/paradigms/jsonrpc2"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "paradigms",
	Short: "JSON-RPC and REST servers over the same business services",
	Long: `paradigms serves tax, user and calculator services twice: as JSON-RPC 2.0
methods on one listener and as REST resources on another.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and the logger, and hands the logger to the
// JSON-RPC core. forceStderr keeps stdout free for protocol traffic.
func setup(forceStderr bool) (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if forceStderr && cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}

	logger, closer, err := logs.Setup(logs.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	jsonrpc2.Configure(jsonrpc2.WithLogger(logger))
	return cfg, logger, closer, nil
}
