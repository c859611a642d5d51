package app

import (
	"context"
	"errors"
	"fmt"

	"hugo/internal/config"
	"hugo/internal/lexicon"
	"hugo/internal/logger"
	"hugo/internal/metrics"
	"hugo/internal/service"
	"hugo/internal/transport/http/api"

	"golang.org/x/sync/errgroup"
)

// App wires configuration, storage, the scoring service and the HTTP API.
type App struct {
	cfg     *config.Config
	lexicon *lexicon.Loader
	svc     *service.Service
	api     *api.Server
	metrics *metrics.Metrics
	closers []func() error
	Summary *StartupSummary
}

// NewApp builds the application from cfg without starting anything.
func NewApp(cfg *config.Config, opts ...AppBuilderOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	return buildAppWithWire(context.Background(), cfg, opts)
}

// Run serves the HTTP API and, when enabled, watches the lexicon file until
// ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}
	group, ctx := errgroup.WithContext(ctx)

	if a.api != nil {
		group.Go(func() error {
			if err := a.api.Start(ctx); err != nil {
				return fmt.Errorf("http server error: %w", err)
			}
			return nil
		})
	}
	if a.cfg.Lexicon.Watch && a.lexicon != nil {
		group.Go(func() error {
			return a.lexicon.Watch(ctx)
		})
	}
	return group.Wait()
}

// Service exposes the scoring service for the CLI and MCP front ends.
func (a *App) Service() *service.Service {
	if a == nil {
		return nil
	}
	return a.svc
}

// API returns the HTTP server, nil when not built.
func (a *App) API() *api.Server {
	if a == nil {
		return nil
	}
	return a.api
}

// Close releases the stores and the log file in reverse build order.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		logger.Warnf("[app] close: %v", err)
		return err
	}
	return nil
}
