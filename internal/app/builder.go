package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hugo/internal/compat"
	"hugo/internal/config"
	"hugo/internal/lexicon"
	"hugo/internal/logger"
	"hugo/internal/metrics"
	"hugo/internal/personality"
	"hugo/internal/recommend"
	"hugo/internal/service"
	"hugo/internal/store"
	"hugo/internal/store/eventlog"
	"hugo/internal/store/gormstore"
	"hugo/internal/team"
	"hugo/internal/transport/http/api"
)

// AppBuilder assembles an App from config. The constructor hooks exist so
// tests can swap the storage layer.
type AppBuilder struct {
	cfg       *config.Config
	logOutput io.Writer
	withHTTP  bool

	storeFn    func(path string) (store.Store, error)
	eventLogFn func(path string) (*eventlog.Log, error)
	loaderFn   func(path string) (*lexicon.Loader, error)

	storeOverride store.Store
}

type AppBuilderOption func(*AppBuilder)

// WithLogOutput sends logs to w instead of stdout. The MCP server needs this
// because stdout carries the protocol.
func WithLogOutput(w io.Writer) AppBuilderOption {
	return func(b *AppBuilder) {
		if w != nil {
			b.logOutput = w
		}
	}
}

// WithoutHTTP skips building the API server, for one-shot CLI commands.
func WithoutHTTP() AppBuilderOption {
	return func(b *AppBuilder) { b.withHTTP = false }
}

// WithStoreOverride uses st instead of opening the configured database.
func WithStoreOverride(st store.Store) AppBuilderOption {
	return func(b *AppBuilder) { b.storeOverride = st }
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:        cfg,
		logOutput:  os.Stdout,
		withHTTP:   true,
		storeFn:    openGormStore,
		eventLogFn: eventlog.Open,
		loaderFn:   lexicon.NewLoader,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func openGormStore(path string) (store.Store, error) {
	return gormstore.NewGormStore(path)
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg
	a := &App{cfg: cfg}
	fail := func(err error) (*App, error) {
		_ = a.Close()
		return nil, err
	}

	if err := b.setupLogging(a); err != nil {
		return fail(err)
	}

	loader, err := b.loaderFn(cfg.Lexicon.Path)
	if err != nil {
		return fail(fmt.Errorf("load lexicon: %w", err))
	}
	a.lexicon = loader
	snap := loader.Snapshot()
	logger.Infof("✓ lexicon %s loaded from %s (%d dimension questions)", snap.Bank.Version, snap.Source, len(snap.Bank.DimensionQuestions))

	if cfg.Metrics.Enabled {
		a.metrics = metrics.New()
		initial := snap.Version
		loader.Subscribe(func(s lexicon.Snapshot) {
			if s.Version == initial {
				return
			}
			a.metrics.LexiconReloaded(nil)
			logger.Infof("[lexicon] reloaded bank %s (version %d)", s.Bank.Version, s.Version)
		})
	}

	opts := []service.Option{
		service.WithMetrics(a.metrics),
		service.WithReportCache(cfg.Team.ReportCacheSize, time.Duration(cfg.Team.ReportCacheTTLSeconds)*time.Second),
		service.WithDefaultLanguage(personality.ParseLanguage(cfg.Lexicon.DefaultLanguage, personality.German)),
	}
	st, err := b.openStore()
	if err != nil {
		return fail(err)
	}
	if st != nil {
		if b.storeOverride == nil {
			a.closers = append(a.closers, st.Close)
		}
		opts = append(opts, service.WithStore(st))
	}
	if !cfg.Store.Disabled && strings.TrimSpace(cfg.Store.EventLogPath) != "" {
		events, err := b.eventLogFn(cfg.Store.EventLogPath)
		if err != nil {
			return fail(fmt.Errorf("open event log: %w", err))
		}
		a.closers = append(a.closers, events.Close)
		opts = append(opts, service.WithEventLog(events))
	}

	matrix := compat.Default()
	analyzer := team.NewAnalyzer(matrix,
		team.WithOptimalSize(cfg.Team.OptimalSize),
		team.WithConflictLevel(compat.Level(cfg.Team.ConflictThreshold)),
		team.WithPreviewMode(team.PreviewMode(cfg.Team.PreviewMode)),
	)
	engine := recommend.NewEngine(matrix,
		recommend.WithTopN(cfg.Recommend.TopN),
		recommend.WithMissingThreshold(cfg.Recommend.MissingThreshold),
		recommend.WithHistoricalScore(cfg.Recommend.HistoricalScore),
	)
	svc, err := service.New(loader, matrix, analyzer, engine, opts...)
	if err != nil {
		return fail(err)
	}
	a.svc = svc

	if b.withHTTP {
		metricsPath := ""
		if cfg.Metrics.Enabled {
			metricsPath = cfg.Metrics.Path
		}
		server, err := api.NewServer(api.ServerConfig{
			Addr:        cfg.App.HTTPAddr,
			Service:     svc,
			Metrics:     a.metrics,
			MetricsPath: metricsPath,
			CORSOrigins: cfg.HTTP.CORSAllowedOrigins,
		})
		if err != nil {
			return fail(fmt.Errorf("init http api: %w", err))
		}
		a.api = server
	}

	a.Summary = &StartupSummary{
		Env:            cfg.App.Env,
		HTTPAddr:       a.api.Addr(),
		StorePath:      storeLabel(cfg, st != nil),
		EventLogPath:   cfg.Store.EventLogPath,
		LexiconSource:  snap.Source,
		LexiconVersion: snap.Bank.Version,
		LexiconWatch:   cfg.Lexicon.Watch,
		Language:       string(svc.Language("")),
		OptimalSize:    cfg.Team.OptimalSize,
		PreviewMode:    cfg.Team.PreviewMode,
		Conflict:       cfg.Team.ConflictThreshold,
		ReportCache:    cfg.Team.ReportCacheSize,
		MetricsPath:    metricsSummary(cfg),
		CORSOrigins:    cfg.HTTP.CORSAllowedOrigins,
	}
	return a, nil
}

// setupLogging applies level and format, and tees output to app.log_path when
// set.
func (b *AppBuilder) setupLogging(a *App) error {
	cfg := b.cfg.App
	logger.SetLevel(cfg.LogLevel)
	out := b.logOutput
	if path := strings.TrimSpace(cfg.LogPath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		a.closers = append(a.closers, func() error {
			logger.SetOutput(b.logOutput)
			return f.Close()
		})
	}
	logger.SetOutput(out)
	logger.SetFormat(cfg.LogFormat)
	return nil
}

func (b *AppBuilder) openStore() (store.Store, error) {
	if b.storeOverride != nil {
		return b.storeOverride, nil
	}
	if b.cfg.Store.Disabled {
		logger.Warnf("[store] disabled; sessions, teams and profile reads are unavailable")
		return nil, nil
	}
	st, err := b.storeFn(b.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func storeLabel(cfg *config.Config, enabled bool) string {
	if !enabled {
		return "disabled"
	}
	return cfg.Store.Path
}

func metricsSummary(cfg *config.Config) string {
	if !cfg.Metrics.Enabled {
		return "disabled"
	}
	return cfg.Metrics.Path
}
