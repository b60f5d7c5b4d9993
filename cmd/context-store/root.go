package main

import (
	"context"
	"fmt"
	"os"

	"github.com/HendryAvila/context-store/internal/config"
	"github.com/HendryAvila/context-store/internal/log"
	"github.com/HendryAvila/context-store/internal/records"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	storeDir  string
	debug     bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "context-store",
	Short: "Persistent context store for coding agents",
	Long: `context-store keeps project notes, global values, plans and priority
content across agent sessions and exposes them as MCP tools over stdio.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "store root directory (default ~/.claude/.session_store)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
}

// loadConfig resolves configuration from env, then applies flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("store-dir") {
		cfg.StoreDir = config.ExpandHome(storeDir)
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	return cfg, nil
}

func setupLogger(ctx context.Context, cfg config.Config) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, log.Options{
		Debug:  cfg.Debug,
		Format: cfg.LogFormat,
	})
}

func openStore(cfg config.Config, logger *zerolog.Logger) *records.FileStore {
	return records.NewFileStore(cfg.StoreDir, logger.With().Str("component", "records").Logger())
}
