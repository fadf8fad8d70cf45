// =============================================================================
// PLN Usage Report - Logger
// =============================================================================
//
// Thin wrapper over zerolog so every component receives the same structured
// logger by injection instead of reaching for a global.
//
//   development -> human readable console output on stderr
//   anything else -> JSON lines on stderr
//
// stdout is left to the commands (the text report is printed there).
//
// =============================================================================

package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the logger options.
type Config struct {
	Env   string // development -> console; production -> JSON
	Level string // trace, debug, info, warn, error
}

// Logger wraps a zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New builds a structured logger writing to stderr.
func New(cfg Config) *Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter builds a logger writing to w. The global zerolog logger is
// redirected as well so libraries that log through it end up in the same sink.
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Trace, Debug, Info, Warn, Error delegate to zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// With returns a sub-logger with the given component name attached.
func (l *Logger) With(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Zerolog exposes the underlying logger for direct API use.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
