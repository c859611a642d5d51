package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hugo/internal/config"
	"hugo/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.App.HTTPAddr = "127.0.0.1:0"
	cfg.Store.Path = filepath.Join(dir, "hugo.db")
	cfg.Store.EventLogPath = filepath.Join(dir, "events.db")
	return cfg
}

func TestNewAppNilConfig(t *testing.T) {
	_, err := NewApp(nil)
	assert.Error(t, err)
}

func TestBuildWiresEverything(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	cfg := testConfig(t)
	a, err := NewApp(cfg, WithLogOutput(&buf))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NotNil(t, a.Service())
	assert.True(t, a.Service().StoreEnabled())
	require.NotNil(t, a.API())
	require.NotNil(t, a.Summary)
	assert.Equal(t, cfg.Store.Path, a.Summary.StorePath)
	assert.Equal(t, "/metrics", a.Summary.MetricsPath)
	assert.Contains(t, a.Summary.String(), "STARTUP SUMMARY")
	assert.Contains(t, buf.String(), "lexicon")

	rec := httptest.NewRecorder()
	a.API().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":true`)

	rec = httptest.NewRecorder()
	a.API().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildWithoutStoreOrHTTP(t *testing.T) {
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })
	cfg := testConfig(t)
	cfg.Store.Disabled = true
	cfg.Metrics.Enabled = false

	a, err := NewApp(cfg, WithoutHTTP(), WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Service().StoreEnabled())
	assert.Nil(t, a.API())
	assert.Equal(t, "disabled", a.Summary.StorePath)
	assert.Equal(t, "disabled", a.Summary.MetricsPath)
	_, err = os.Stat(cfg.Store.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestLogFileTee(t *testing.T) {
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })
	cfg := testConfig(t)
	cfg.App.LogPath = filepath.Join(t.TempDir(), "logs", "app.log")

	a, err := NewApp(cfg, WithoutHTTP(), WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	raw, err := os.ReadFile(cfg.App.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "lexicon")
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	cfg := testConfig(t)
	a, err := NewApp(cfg, WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
	assert.NoError(t, a.Close())
}

func TestRunUninitialized(t *testing.T) {
	var a *App
	assert.Error(t, a.Run(context.Background()))
	assert.NoError(t, a.Close())
}
