// Package logging provides the leveled logger shared by the simulator packages.
package logging

import (
	"fmt"
	"log"
	"strings"
)

// Logger is injected into packages that need to log.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Level is a logging threshold.
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

// ParseLevel parses a case-insensitive level name.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// StdLogger writes through a *log.Logger with [LEVEL] prefixes.
type StdLogger struct {
	level Level
	out   *log.Logger
}

// New returns a StdLogger writing to the standard logger.
func New(level Level) *StdLogger {
	return &StdLogger{level: level, out: log.Default()}
}

// NewWith returns a StdLogger writing to out.
func NewWith(level Level, out *log.Logger) *StdLogger {
	return &StdLogger{level: level, out: out}
}

func (l *StdLogger) logf(level Level, tag, format string, v ...any) {
	if level < l.level {
		return
	}
	l.out.Output(3, "["+tag+"] "+fmt.Sprintf(format, v...))
}

func (l *StdLogger) Debugf(format string, v ...any) { l.logf(LevelDebug, "DEBUG", format, v...) }
func (l *StdLogger) Infof(format string, v ...any)  { l.logf(LevelInfo, "INFO", format, v...) }
func (l *StdLogger) Warnf(format string, v ...any)  { l.logf(LevelWarn, "WARN", format, v...) }
func (l *StdLogger) Errorf(format string, v ...any) { l.logf(LevelError, "ERROR", format, v...) }

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (NoOpLogger) Debugf(string, ...any) {}
func (NoOpLogger) Infof(string, ...any)  {}
func (NoOpLogger) Warnf(string, ...any)  {}
func (NoOpLogger) Errorf(string, ...any) {}

// Nop returns a logger that does nothing.
func Nop() Logger { return NoOpLogger{} }
