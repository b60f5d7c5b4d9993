package main

import (
	"fmt"

	ctxserver "github.com/HendryAvila/context-store/internal/server"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "context-store v%s\n", ctxserver.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
