package main

import (
	"os"

	"TapaalTracker/internal/bootstrap"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tapaal",
	Short: "Tapaal mail dispatch tracking server",
	Long: `Tapaal tracks inward and outward physical mail for an organisation:
registration, status, attachments, reminders and a chat assistant.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		bootstrap.Loadenv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
