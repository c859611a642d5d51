package main

import (
	"hugo/internal/app"
	"hugo/internal/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the assessment, team and recommendation API.

Stops on SIGINT or SIGTERM. With lexicon.watch enabled the question bank
is reloaded whenever its file changes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer closeApp(a)
		logger.Infof("✓ config loaded (env=%s)", cfg.App.Env)
		return a.Run(cmd.Context())
	},
}
