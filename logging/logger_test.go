package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Logger = NoOpLogger{}
var _ Logger = (*SlogAdapter)(nil)
var _ Logger = (*TutorLogger)(nil)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"error", LogLevelError},
		{"DEBUG", LogLevelDebug},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "input %q", tt.in)
	}
}

func newBufferLogger(level LogLevel) (*TutorLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf})
	return logger, &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestTutorLogger_KeyValueArgs(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)
	logger.Info("session created", "student_id", "stu-1", "has_memory", true)

	entry := lastEntry(t, buf)
	assert.Equal(t, "session created", entry["msg"])
	assert.Equal(t, "stu-1", entry["student_id"])
	assert.Equal(t, true, entry["has_memory"])
}

func TestTutorLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelWarn)
	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestTutorLogger_WithHelpers(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)
	child := logger.WithComponent("session").WithStudent("stu-1").WithContext("attempt", 3)
	child.Info("saved")

	entry := lastEntry(t, buf)
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "stu-1", entry["student_id"])
	assert.Equal(t, float64(3), entry["attempt"])

	// The parent is unchanged by the derived loggers.
	buf.Reset()
	logger.Info("parent")
	entry = lastEntry(t, buf)
	assert.NotContains(t, entry, "component")
	assert.NotContains(t, entry, "student_id")
}

func TestTutorLogger_LogModelCall(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.LogModelCall("openai", "gpt-4o-mini", 120*time.Millisecond, nil)
	entry := lastEntry(t, buf)
	assert.Equal(t, "Model call completed", entry["msg"])
	assert.Equal(t, true, entry["success"])

	buf.Reset()
	logger.LogModelCall("openai", "gpt-4o-mini", time.Second, errors.New("rate limited"))
	entry = lastEntry(t, buf)
	assert.Equal(t, "Model call failed", entry["msg"])
	assert.Equal(t, false, entry["success"])
	assert.Equal(t, "rate limited", entry["error"])
}

func TestTutorLogger_LogEviction(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)
	logger.LogEviction(2, 5)

	entry := lastEntry(t, buf)
	assert.Equal(t, float64(2), entry["evicted"])
	assert.Equal(t, float64(5), entry["remaining"])
}

func TestTutorLogger_LogPersistence(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelDebug)

	logger.LogPersistence("stu-1", nil)
	entry := lastEntry(t, buf)
	assert.Equal(t, "Profile persisted", entry["msg"])

	buf.Reset()
	logger.LogPersistence("stu-1", errors.New("disk full"))
	entry = lastEntry(t, buf)
	assert.Equal(t, "Profile persistence failed", entry["msg"])
	assert.Equal(t, "disk full", entry["error"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf})
	logger.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}
