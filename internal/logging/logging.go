// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging provides component-scoped structured logging.
//
// Loggers accept a message followed by alternating key/value pairs:
//
//	logging.WithComponent("schema").Warn("attribute excluded", "attribute", name, "error", err)
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name as written in configuration files.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Config controls logger construction.
type Config struct {
	Level  Level
	Output io.Writer
	JSON   bool
}

// DefaultConfig logs human-readable info-level lines to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
		JSON:   false,
	}
}

// Logger is a structured logger bound to an optional component name.
type Logger struct {
	zl        zerolog.Logger
	component string
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(out).Level(cfg.Level.zerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// WithComponent returns a child logger that tags every entry with component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		zl:        l.zl.With().Str("component", component).Logger(),
		component: component,
	}
}

// With returns a child logger that adds the key/value pairs to every entry.
func (l *Logger) With(args ...any) *Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(args); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(args[i]), args[i+1])
	}
	return &Logger{zl: ctx.Logger(), component: l.component}
}

// Component returns the component name, if any.
func (l *Logger) Component() string {
	return l.component
}

func (l *Logger) Debug(msg string, args ...any) { l.emit(l.zl.Debug(), msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.emit(l.zl.Info(), msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(l.zl.Warn(), msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.emit(l.zl.Error(), msg, args) }

func (l *Logger) emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			ev = ev.Str("!BADKEY", key)
			break
		}
		switch v := args[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case fmt.Stringer:
			ev = ev.Stringer(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(DefaultConfig())
)

// Default returns the process-wide logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// WithComponent returns a component logger derived from the default logger.
func WithComponent(component string) *Logger {
	return Default().WithComponent(component)
}

func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
