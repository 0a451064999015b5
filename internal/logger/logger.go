// Package logger owns the process-wide logging backend.
//
// The backend starts in a usable bootstrap state (INFO, text, stderr) so
// startup failures before configuration resolution are never silent. Init
// applies the resolved logging configuration exactly once per process; a
// second call is a programming error, reported as ErrAlreadyInitialized and
// leaving the active state untouched.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// ErrAlreadyInitialized is returned by Init when the logging backend has
// already been configured in this process.
var ErrAlreadyInitialized = errors.New("logging backend already initialized")

// Config holds logging configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	mu          sync.RWMutex
	initialized bool
	slogger     *slog.Logger
	output      io.Writer
	useColor    bool
)

func init() {
	output = os.Stderr
	useColor = isTerminal(os.Stderr.Fd())
	slogger = slog.New(newHandler(output, slog.LevelInfo, "text", useColor))
}

// Init configures the process-wide logging backend from the resolved
// configuration. It succeeds at most once per process; any later call
// fails with ErrAlreadyInitialized without altering the active backend.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return ErrAlreadyInitialized
	}

	w, color, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	output = w
	useColor = color
	slogger = slog.New(newHandler(output, level, format, useColor))
	initialized = true
	return nil
}

func newHandler(w io.Writer, level slog.Level, format string, color bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return NewColorTextHandler(w, opts, color)
}

func openOutput(name string) (io.Writer, bool, error) {
	switch strings.ToLower(name) {
	case "", "stderr":
		return os.Stderr, isTerminal(os.Stderr.Fd()), nil
	case "stdout":
		return os.Stdout, isTerminal(os.Stdout.Fd()), nil
	default:
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, false, fmt.Errorf("open log file %q: %w", name, err)
		}
		return f, false, nil
	}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// InitWithWriter points the backend at an arbitrary writer without
// consuming the once-only initialization. Test hook.
func InitWithWriter(w io.Writer, level, format string) {
	mu.Lock()
	defer mu.Unlock()
	lvl, err := parseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	if format == "" {
		format = "text"
	}
	output = w
	useColor = false
	slogger = slog.New(newHandler(w, lvl, format, false))
}

func getLogger() *slog.Logger {
	mu.RLock()
	l := slogger
	mu.RUnlock()
	return l
}

// Debug logs at debug level with structured fields.
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs at info level with structured fields.
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs at warn level with structured fields.
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs at error level with structured fields.
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// With returns a slog.Logger carrying pre-bound attributes.
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}
