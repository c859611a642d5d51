// Package service joins the pure scoring packages with persistence, the
// event log and metrics. The HTTP API, the MCP tool server and the CLI all
// go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hugo/internal/compat"
	"hugo/internal/lexicon"
	"hugo/internal/logger"
	"hugo/internal/metrics"
	"hugo/internal/personality"
	"hugo/internal/recommend"
	"hugo/internal/store"
	"hugo/internal/store/eventlog"
	"hugo/internal/team"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInput marks errors the caller can fix by changing the request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreDisabled is returned by operations that need persistence when
	// the store is switched off.
	ErrStoreDisabled = errors.New("persistence disabled")
)

var timeNow = time.Now

// BankSource serves the active question bank.
type BankSource interface {
	Bank() *lexicon.Bank
}

// EventLog records domain events. *eventlog.Log implements it.
type EventLog interface {
	Append(ctx context.Context, kind eventlog.Kind, subjectID string, payload any) (eventlog.Event, error)
	List(ctx context.Context, kind eventlog.Kind, limit int) ([]eventlog.Event, error)
}

type Service struct {
	bank     BankSource
	matrix   *compat.Matrix
	analyzer *team.Analyzer
	engine   *recommend.Engine

	store   store.Store
	events  EventLog
	metrics *metrics.Metrics
	reports *reportCache
	lang    personality.Language
	newID   func() string
}

type Option func(*Service)

// WithStore enables persistence. A nil store leaves it disabled.
func WithStore(st store.Store) Option {
	return func(s *Service) { s.store = st }
}

func WithEventLog(l EventLog) Option {
	return func(s *Service) { s.events = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithReportCache sizes the team report cache. size <= 0 disables it.
func WithReportCache(size int, ttl time.Duration) Option {
	return func(s *Service) { s.reports = newReportCache(size, ttl) }
}

// WithDefaultLanguage sets the language used when a request names none.
func WithDefaultLanguage(lang personality.Language) Option {
	return func(s *Service) { s.lang = lang }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(bank BankSource, matrix *compat.Matrix, analyzer *team.Analyzer, engine *recommend.Engine, opts ...Option) (*Service, error) {
	if bank == nil || bank.Bank() == nil {
		return nil, fmt.Errorf("service: question bank is required")
	}
	if matrix == nil {
		matrix = compat.Default()
	}
	if analyzer == nil {
		analyzer = team.NewAnalyzer(matrix)
	}
	if engine == nil {
		engine = recommend.NewEngine(matrix)
	}
	s := &Service{
		bank:     bank,
		matrix:   matrix,
		analyzer: analyzer,
		engine:   engine,
		lang:     personality.German,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.reports == nil {
		s.reports = newReportCache(0, 0)
	}
	return s, nil
}

// Bank returns the active question bank.
func (s *Service) Bank() *lexicon.Bank { return s.bank.Bank() }

// Matrix returns the compatibility matrix in use.
func (s *Service) Matrix() *compat.Matrix { return s.matrix }

// Analyzer returns the team analyzer in use.
func (s *Service) Analyzer() *team.Analyzer { return s.analyzer }

// StoreEnabled reports whether persistence is configured.
func (s *Service) StoreEnabled() bool { return s.store != nil }

// Language resolves a requested language against the configured default.
func (s *Service) Language(raw string) personality.Language {
	return personality.ParseLanguage(raw, s.lang)
}

// Events lists recorded events, newest first.
func (s *Service) Events(ctx context.Context, kind eventlog.Kind, limit int) ([]eventlog.Event, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.List(ctx, kind, limit)
}

func (s *Service) requireStore() error {
	if s.store == nil {
		return ErrStoreDisabled
	}
	return nil
}

func (s *Service) record(ctx context.Context, kind eventlog.Kind, subjectID string, payload any) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Append(ctx, kind, subjectID, payload); err != nil {
		logger.Warnf("[store] event append failed kind=%s subject=%s err=%v", kind, subjectID, err)
	}
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
