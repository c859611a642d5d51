package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetFormat("text")
		SetOutput(os.Stdout)
		SetLevel("info")
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := reset(t)
	SetLevel("warn")
	Infof("[api] hidden")
	Warnf("[api] shown team=%s", "t1")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown team=t1")

	SetLevel("bogus")
	Debugf("debug line")
	assert.NotContains(t, buf.String(), "debug line")
}

func TestJSONFormat(t *testing.T) {
	buf := reset(t)
	SetFormat("JSON")
	Errorf("[store] failed err=%v", "boom")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "[store] failed err=boom", rec["msg"])
}

func TestInfoBlock(t *testing.T) {
	buf := reset(t)
	InfoBlock("\n one\n two \n")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	InfoBlock("   ")
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 2)
}
