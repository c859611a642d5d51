package eventlog

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestAppendAndList(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = prev })

	l := openLog(t)
	_, err := l.Append(ctx, KindProfileCompleted, "p-1", map[string]string{"final_type": "V2"})
	require.NoError(t, err)
	_, err = l.Append(ctx, KindTeamAnalyzed, "t-1", nil)
	require.NoError(t, err)
	last, err := l.Append(ctx, KindProfileCompleted, "p-2", map[string]string{"final_type": "C1"})
	require.NoError(t, err)
	assert.NotEmpty(t, last.ID)

	all, err := l.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "p-2", all[0].SubjectID, "newest first")
	assert.Equal(t, fixed, all[0].CreatedAt)
	assert.Nil(t, all[1].Payload)

	profiles, err := l.List(ctx, KindProfileCompleted, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(profiles[1].Payload, &payload))
	assert.Equal(t, "V2", payload["final_type"])

	limited, err := l.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAppendValidation(t *testing.T) {
	l := openLog(t)
	_, err := l.Append(context.Background(), "", "x", nil)
	assert.Error(t, err)

	_, err = l.Append(context.Background(), KindSessionAdvanced, "s", func() {})
	assert.Error(t, err)
}

func TestNilLogIsNoop(t *testing.T) {
	var l *Log
	evt, err := l.Append(context.Background(), KindSessionAdvanced, "s-1", nil)
	assert.NoError(t, err)
	assert.Empty(t, evt.ID)
	events, err := l.List(context.Background(), "", 5)
	assert.NoError(t, err)
	assert.Nil(t, events)
	assert.NoError(t, l.Close())
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	l, err := Open(path)
	require.NoError(t, err)
	_, err = l.Append(context.Background(), KindSessionAdvanced, "s-1", map[string]int{"index": 1})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	events, err := again.List(context.Background(), KindSessionAdvanced, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = Open(" ")
	assert.Error(t, err)
}
