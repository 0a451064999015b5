package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetForTest rewinds the once-only guard so each test exercises Init
// from a fresh process state.
func resetForTest(t *testing.T) {
	t.Helper()
	mu.Lock()
	initialized = false
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		initialized = false
		mu.Unlock()
	})
}

func TestInit_Succeeds(t *testing.T) {
	resetForTest(t)

	logPath := filepath.Join(t.TempDir(), "test.log")
	err := Init(Config{Level: "DEBUG", Format: "json", Output: logPath})
	require.NoError(t, err)
}

func TestInit_SecondCallFails(t *testing.T) {
	resetForTest(t)

	logPath := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: logPath}))

	err := Init(Config{Level: "DEBUG", Format: "json", Output: "stderr"})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInit_SecondCallLeavesBackendUntouched(t *testing.T) {
	resetForTest(t)

	buf := new(bytes.Buffer)
	InitWithWriter(buf, "INFO", "json")
	mu.Lock()
	initialized = true
	mu.Unlock()

	// The failed second Init must not change level or destination.
	err := Init(Config{Level: "ERROR", Format: "text", Output: "stderr"})
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	Info("still here")
	assert.Contains(t, buf.String(), "still here",
		"active backend should keep receiving log output")
}

func TestInit_InvalidLevel(t *testing.T) {
	resetForTest(t)

	err := Init(Config{Level: "LOUD", Format: "text", Output: "stderr"})
	require.Error(t, err)

	// A failed Init does not consume the once-only initialization.
	assert.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: "stderr"}))
}

func TestInit_InvalidFormat(t *testing.T) {
	resetForTest(t)

	err := Init(Config{Level: "INFO", Format: "xml", Output: "stderr"})
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	InitWithWriter(buf, "WARN", "text")

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestJSONFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	InitWithWriter(buf, "INFO", "json")

	Info("structured message", "key", "value", "count", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "structured message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestWith(t *testing.T) {
	buf := new(bytes.Buffer)
	InitWithWriter(buf, "INFO", "json")

	With("component", "beacon").Info("bound attrs")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "beacon", entry["component"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"Warn":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		got, err := parseLevel(in)
		require.NoError(t, err, "parseLevel(%q)", in)
		assert.Equal(t, want, got, "parseLevel(%q)", in)
	}

	_, err := parseLevel("TRACE")
	assert.Error(t, err)
}
