package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	lg := New("console", WithWriter(&buf))

	lg.Info("service_started", map[string]any{"port": 3000})
	lg.WithRequestID("req-1").Error("list_failed", errors.New("db down"), nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "console", lines[0]["service"])
	assert.Equal(t, "service_started", lines[0]["action"])
	assert.Equal(t, "service_started", lines[0]["message"])
	assert.Equal(t, float64(3000), lines[0]["port"])
	assert.Equal(t, "", lines[0]["request_id"])
	assert.Contains(t, lines[0], "timestamp")
	assert.Contains(t, lines[0], "hostname")

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "req-1", lines[1]["request_id"])
	errField, ok := lines[1]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "db down", errField["msg"])
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lg := New("api", WithWriter(&buf), WithLevel("info"))

	lg.Debug("noise", nil)
	lg.Warn("careful", nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "WARN", lines[0]["level"])
}

func TestFromContext(t *testing.T) {
	base := Nop()
	assert.Same(t, base, FromContext(context.Background(), base))

	child := base.WithRequestID("abc")
	ctx := IntoContext(context.Background(), child)
	assert.Equal(t, "abc", FromContext(ctx, base).RequestID())
}
