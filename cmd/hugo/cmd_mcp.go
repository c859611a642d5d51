package main

import (
	"fmt"

	"hugo/internal/mcpserver"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the scoring tools over MCP stdio",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, cfg, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)
		if !cfg.MCP.Enabled {
			return fmt.Errorf("mcp is disabled in config")
		}
		return mcpserver.Serve(a.Service())
	},
}
