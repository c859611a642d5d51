package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"hugo/internal/app"
	"hugo/internal/config"
	"hugo/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	jsonOutput bool
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "hugo",
	Short: "Work-style assessment and team synergy analysis",
	Long: `hugo classifies people into twelve work-style types across the Vision,
Innovation, Expertise and Collaboration dimensions, and scores how well
a team of those types is likely to work together.

Run "hugo serve" for the HTTP API, "hugo chat" for the interactive
assessment, or "hugo mcp" to expose the tools over stdio.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $HUGO_CONFIG or configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.AddCommand(serveCmd, classifyCmd, likertCmd, teamCmd, previewCmd, compatCmd, recommendCmd, chatCmd, mcpCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error: "+err.Error()))
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := config.ResolvePath(cfgPath)
	cfg, found, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if !found {
		logger.Warnf("config %s not found, using built-in defaults", path)
	}
	return cfg, nil
}

// openApp builds the app for one-shot commands: no HTTP server and logs on
// stderr so stdout only carries results.
func openApp(opts ...app.AppBuilderOption) (*app.App, *config.Config, error) {
	logger.SetOutput(os.Stderr)
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	opts = append([]app.AppBuilderOption{app.WithoutHTTP(), app.WithLogOutput(os.Stderr)}, opts...)
	a, err := app.NewApp(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		fmt.Fprintln(os.Stderr, yellow("close: "+err.Error()))
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
