// Package corelog declares the six-method logger trait the core consumes
// and a default implementation backed by log/slog. Hosts may supply their
// own Logger; the core never imports a concrete logging library directly
// outside this default.
package corelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is the trait every confkit component logs through. verbose and
// silly exist only to match the six-method surface — they are not standard
// slog levels, so the default implementation maps them to custom levels
// below slog.LevelDebug.
type Logger interface {
	Debug(msg string)
	Verbose(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Silly(msg string)
}

const (
	levelSilly   = slog.Level(-12)
	levelVerbose = slog.Level(-8)
)

// SlogLogger adapts *slog.Logger to the Logger trait. Verbose output is
// gated behind a minimum level: callers construct a SlogLogger with the
// desired minimum level via NewSlog.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlog builds a Logger writing to w at minLevel and above. Pass
// slog.LevelInfo for the default (non-verbose) CLI experience and
// levelVerbose (via VerboseLevel()) when --verbose is set.
func NewSlog(w io.Writer, minLevel slog.Level) *SlogLogger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: minLevel})
	return &SlogLogger{l: slog.New(h)}
}

// Default returns a Logger writing to stderr at Info level, the default
// (non-verbose) CLI output.
func Default() *SlogLogger {
	return NewSlog(os.Stderr, slog.LevelInfo)
}

// VerboseLevel is the slog.Level to pass to NewSlog to enable Verbose()
// output, e.g. when a host's --verbose flag is set.
func VerboseLevel() slog.Level { return levelVerbose }

func (s *SlogLogger) Debug(msg string)   { s.l.Debug(msg) }
func (s *SlogLogger) Verbose(msg string) { s.l.Log(context.Background(), levelVerbose, msg) }
func (s *SlogLogger) Info(msg string)    { s.l.Info(msg) }
func (s *SlogLogger) Warn(msg string)    { s.l.Warn(msg) }
func (s *SlogLogger) Error(msg string)   { s.l.Error(msg) }
func (s *SlogLogger) Silly(msg string)   { s.l.Log(context.Background(), levelSilly, msg) }

// Noop discards everything; useful as a default when a host doesn't wire a
// logger and as the zero value in tests.
type Noop struct{}

func (Noop) Debug(string)   {}
func (Noop) Verbose(string) {}
func (Noop) Info(string)    {}
func (Noop) Warn(string)    {}
func (Noop) Error(string)   {}
func (Noop) Silly(string)   {}

// Fmt formats a log message, kept here so call sites read
// logger.Debug(corelog.Fmt("walking %s", dir)) instead of importing fmt
// themselves.
func Fmt(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
