// Package logging builds the slog loggers used across alndiff. Every logger
// carries a subsystem attribute naming the component that wrote the line.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LogLevel is the user-facing verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Subsystem names.
const (
	Extract = "extract"
	Split   = "split"
	Driver  = "driver"
	Source  = "source"
	Config  = "config"
	App     = "app"
)

// New returns a text logger on w filtering below level.
func New(w io.Writer, level LogLevel) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.SlogLevel()}))
}

// Discard drops everything.
func Discard() *slog.Logger { return New(io.Discard, LevelError) }

// For tags l with subsystem. A nil l yields a discarding logger.
func For(l *slog.Logger, subsystem string) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With("subsystem", subsystem)
}
