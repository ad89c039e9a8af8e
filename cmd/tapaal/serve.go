package main

import (
	"TapaalTracker/internal/config"
	"TapaalTracker/pkg/routes"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(
			routes.EchoModules,
			fx.WithLogger(config.FxLogger),
		)
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
