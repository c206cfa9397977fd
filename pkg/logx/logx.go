// Package logx is the project-wide structured logger. It exposes a small
// leveled API with field chaining, backed by zerolog.
package logx

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level controls the minimum severity that gets emitted.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// Fields is a set of structured key/value pairs attached to a log line.
type Fields map[string]any

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Logger()

// SetLevel sets the global minimum level.
func SetLevel(level Level) {
	switch level {
	case LevelTrace:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case LevelDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case LevelWarn:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case LevelError:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Entry is a log statement under construction, carrying accumulated fields.
type Entry struct {
	fields Fields
	err    error
}

// WithField starts an entry with a single field.
func WithField(key string, value any) *Entry {
	return &Entry{fields: Fields{key: value}}
}

// WithFields starts an entry with a set of fields.
func WithFields(fields Fields) *Entry {
	copied := make(Fields, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Entry{fields: copied}
}

// WithError starts an entry carrying an error.
func WithError(err error) *Entry {
	return &Entry{fields: Fields{}, err: err}
}

// WithField adds a field to the entry.
func (e *Entry) WithField(key string, value any) *Entry {
	if e.fields == nil {
		e.fields = Fields{}
	}
	e.fields[key] = value
	return e
}

// WithFields adds fields to the entry.
func (e *Entry) WithFields(fields Fields) *Entry {
	if e.fields == nil {
		e.fields = Fields{}
	}
	for k, v := range fields {
		e.fields[k] = v
	}
	return e
}

// WithError attaches an error to the entry.
func (e *Entry) WithError(err error) *Entry {
	e.err = err
	return e
}

func (e *Entry) emit(ev *zerolog.Event, msg string) {
	for k, v := range e.fields {
		ev = ev.Interface(k, v)
	}
	if e.err != nil {
		ev = ev.Err(e.err)
	}
	ev.Msg(msg)
}

func (e *Entry) Trace(msg string) { e.emit(logger.Trace(), msg) }
func (e *Entry) Debug(msg string) { e.emit(logger.Debug(), msg) }
func (e *Entry) Info(msg string)  { e.emit(logger.Info(), msg) }
func (e *Entry) Warn(msg string)  { e.emit(logger.Warn(), msg) }
func (e *Entry) Error(msg string) { e.emit(logger.Error(), msg) }

func (e *Entry) Tracef(format string, args ...any) { e.Trace(fmt.Sprintf(format, args...)) }
func (e *Entry) Debugf(format string, args ...any) { e.Debug(fmt.Sprintf(format, args...)) }
func (e *Entry) Infof(format string, args ...any)  { e.Info(fmt.Sprintf(format, args...)) }
func (e *Entry) Warnf(format string, args ...any)  { e.Warn(fmt.Sprintf(format, args...)) }
func (e *Entry) Errorf(format string, args ...any) { e.Error(fmt.Sprintf(format, args...)) }

// Package-level shortcuts.

func Trace(msg string) { logger.Trace().Msg(msg) }
func Debug(msg string) { logger.Debug().Msg(msg) }
func Info(msg string)  { logger.Info().Msg(msg) }
func Warn(msg string)  { logger.Warn().Msg(msg) }
func Error(msg string) { logger.Error().Msg(msg) }
func Fatal(msg string) { logger.Fatal().Msg(msg) }

func Tracef(format string, args ...any) { logger.Trace().Msgf(format, args...) }
func Debugf(format string, args ...any) { logger.Debug().Msgf(format, args...) }
func Infof(format string, args ...any)  { logger.Info().Msgf(format, args...) }
func Warnf(format string, args ...any)  { logger.Warn().Msgf(format, args...) }
func Errorf(format string, args ...any) { logger.Error().Msgf(format, args...) }
func Fatalf(format string, args ...any) { logger.Fatal().Msgf(format, args...) }
