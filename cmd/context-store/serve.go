package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/HendryAvila/context-store/internal/log"
	"github.com/HendryAvila/context-store/internal/protocol"
	ctxserver "github.com/HendryAvila/context-store/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Serves the context store tools over newline-delimited JSON-RPC on
stdin/stdout. The current working directory selects the project.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// Graceful shutdown on interrupt.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx, cfg)
		defer flushLog()
		logger := log.FromCtx(ctx)

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}

		store := openStore(cfg, logger)
		svc := contextstore.New(store, cwd, logger.With().Str("component", "contextstore").Logger())
		s := ctxserver.New(svc, *logger)

		logger.Info().
			Str("version", ctxserver.Version).
			Str("store", cfg.StoreDir).
			Str("project", svc.ProjectID()).
			Msg("context-store serving on stdio")

		err = protocol.New(s, *logger).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("shutting down")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
