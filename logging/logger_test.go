package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diskowner.log")
	logger := NewLogger(&Config{Level: "debug", Format: "json", Output: path})

	ctx := ContextWithRequestID(context.Background(), "req-42")
	logger.WithComponent("y360_client").WithContext(ctx).API("Response received", "status", 200)
	logger.Performance("whoami", 1500*time.Millisecond)

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "Response received", entries[0]["msg"])
	assert.Equal(t, "api", entries[0]["subsystem"])
	assert.Equal(t, "y360_client", entries[0]["component"])
	assert.Equal(t, "req-42", entries[0]["request_id"])
	assert.Contains(t, entries[0], "timestamp")
	assert.NotContains(t, entries[0], "time")

	assert.Equal(t, "whoami", entries[1]["operation"])
	assert.EqualValues(t, 1500, entries[1]["duration_ms"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&0o077, "log file is private to the owner")
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")
	logger := NewLogger(&Config{Level: "warn", Format: "json", Output: path})

	logger.Info("hidden")
	logger.Credentials("hidden too")
	logger.Security("Token validation failed", "token", "***")

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "security", entries[0]["subsystem"])
}

func TestRequestIDFromContext(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = RequestIDFromContext(ContextWithRequestID(context.Background(), ""))
	assert.False(t, ok, "empty ids are ignored")

	id, ok := RequestIDFromContext(ContextWithRequestID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestWithContext_NoRequestIDReturnsSameLogger(t *testing.T) {
	logger := NewDiscardLogger()
	assert.Same(t, logger, logger.WithContext(context.Background()))
}

func TestDefault(t *testing.T) {
	previous := defaultLogger
	t.Cleanup(func() { SetDefault(previous) })

	custom := NewDiscardLogger()
	SetDefault(custom)
	assert.Same(t, custom, Default())

	SetDefault(nil)
	assert.NotNil(t, Default())
}
