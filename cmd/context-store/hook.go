package main

import (
	"github.com/HendryAvila/context-store/internal/hooks"
	"github.com/HendryAvila/context-store/internal/log"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run an agent session hook",
	Long: `Hooks read the agent's hook JSON from stdin and write
{"continue": true, "message": ...} to stdout.`,
}

func newHookCmd(event hooks.Event, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(event),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, flushLog := setupLogger(cmd.Context(), cfg)
			defer flushLog()
			logger := log.FromCtx(ctx)

			runner := &hooks.Runner{
				Store:    openStore(cfg, logger),
				PlansDir: cfg.PlansDir,
				Logger:   logger.With().Str("hook", string(event)).Logger(),
			}
			return runner.Run(event, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func init() {
	hookCmd.AddCommand(
		newHookCmd(hooks.EventSessionStart, "Register the project and snapshot its context"),
		newHookCmd(hooks.EventSessionEnd, "Save the finished session from its transcript"),
		newHookCmd(hooks.EventShowContext, "Show accumulated project context and priority content"),
	)
	rootCmd.AddCommand(hookCmd)
}
