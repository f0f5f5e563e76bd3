// Package atpglog provides the structured logger threaded through every
// component constructor in this module, replacing the teacher's
// hand-rolled indentation logger with zerolog.
package atpglog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the wire format of a Logger's output.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Level mirrors zerolog's levels under names the rest of this module uses
// in configuration.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

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

// Config controls how a Logger is constructed.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger wraps a zerolog.Logger; With derives component-tagged child
// loggers from it.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger from cfg, defaulting Output to stdout and Format to
// text when unset.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: false}
	}
	z := zerolog.New(out).With().Timestamp().Logger().Level(cfg.Level.zerolog())
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything; useful in tests.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop()}
}

// With returns a child logger carrying an extra field, e.g. the
// component name or the current fault ID being processed.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{z: l.z.With().Interface(key, value).Logger()}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.emit(l.z.Debug(), msg, kv) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.emit(l.z.Info(), msg, kv) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.emit(l.z.Warn(), msg, kv) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.emit(l.z.Error(), msg, kv) }

func (l *Logger) emit(e *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}
