// Package eventlog is an append-only record of completed assessments, team
// analyses and session steps, kept in its own SQLite file.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Kind string

const (
	KindProfileCompleted Kind = "profile.completed"
	KindTeamAnalyzed     Kind = "team.analyzed"
	KindSessionAdvanced  Kind = "session.advanced"
)

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 100

var timeNow = time.Now

type Event struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	SubjectID string          `json:"subject_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Log struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates the file and schema when missing.
func Open(path string) (*Log, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("event log path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Log{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			kind       TEXT NOT NULL,
			subject_id TEXT NOT NULL DEFAULT '',
			payload    TEXT,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind, seq);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("event log schema: %w", err)
		}
	}
	return nil
}

func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// Append encodes payload as JSON and stores a new event. A nil Log is a
// no-op so callers can run without an event log configured.
func (l *Log) Append(ctx context.Context, kind Kind, subjectID string, payload any) (Event, error) {
	if l == nil {
		return Event{}, nil
	}
	if kind == "" {
		return Event{}, fmt.Errorf("event kind is required")
	}
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("encode %s payload: %w", kind, err)
		}
		raw = b
	}
	evt := Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		SubjectID: subjectID,
		Payload:   raw,
		CreatedAt: timeNow().UTC().Truncate(time.Millisecond),
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return Event{}, fmt.Errorf("event log closed")
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO events (id, kind, subject_id, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		evt.ID, string(evt.Kind), evt.SubjectID, nullableText(raw), evt.CreatedAt.UnixMilli())
	if err != nil {
		return Event{}, fmt.Errorf("append %s: %w", kind, err)
	}
	return evt, nil
}

// List returns the newest events first. An empty kind lists every kind.
func (l *Log) List(ctx context.Context, kind Kind, limit int) ([]Event, error) {
	if l == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	l.mu.Lock()
	db := l.db
	l.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("event log closed")
	}
	query := `SELECT id, kind, subject_id, payload, created_at FROM events`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var (
			evt       Event
			kindText  string
			payload   sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&evt.ID, &kindText, &evt.SubjectID, &payload, &createdAt); err != nil {
			return nil, err
		}
		evt.Kind = Kind(kindText)
		if payload.Valid && payload.String != "" {
			evt.Payload = json.RawMessage(payload.String)
		}
		evt.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, evt)
	}
	return out, rows.Err()
}

func nullableText(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
