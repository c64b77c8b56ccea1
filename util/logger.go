// Package util provides low-level helpers shared by all other packages.
package util

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel controls output verbosity.
type LogLevel int

const (
	LogQuiet   LogLevel = 0
	LogNormal  LogLevel = 1
	LogVerbose LogLevel = 2
	LogDebug   LogLevel = 3
)

// Logger is a levelled logger backed by logrus.  Loggers derived with
// With share the parent's output, formatter and level.
type Logger struct {
	entry *logrus.Entry
	level LogLevel
}

// NewLogger returns a Logger that prints messages at or below the given
// verbosity (0 = errors only, 1 = normal, 2 = verbose, 3 = debug).
func NewLogger(verbosity int) *Logger {
	level := LogLevel(verbosity)
	if level < LogQuiet {
		level = LogQuiet
	}
	if level > LogDebug {
		level = LogDebug
	}

	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	base.SetLevel(logrusLevel(level))

	return &Logger{entry: logrus.NewEntry(base), level: level}
}

func logrusLevel(l LogLevel) logrus.Level {
	switch l {
	case LogNormal:
		return logrus.InfoLevel
	case LogVerbose:
		return logrus.DebugLevel
	case LogDebug:
		return logrus.TraceLevel
	default:
		return logrus.ErrorLevel
	}
}

// SetTimestamps enables or disables the time field.
func (l *Logger) SetTimestamps(on bool) {
	if f, ok := l.entry.Logger.Formatter.(*logrus.TextFormatter); ok {
		f.DisableTimestamp = !on
	}
}

// SetOutput overrides the output writer (default: os.Stderr).
func (l *Logger) SetOutput(w io.Writer) { l.entry.Logger.SetOutput(w) }

// Level returns the current log level.
func (l *Logger) Level() LogLevel { return l.level }

// With returns a child logger that adds key=value to every line.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value), level: l.level}
}

// Info prints when verbosity ≥ 1.
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warn prints when verbosity ≥ 1.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Verbose prints when verbosity ≥ 2 (logrus debug level).
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Debug prints when verbosity ≥ 3 (logrus trace level).
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Tracef(format, args...)
}

// Error always prints regardless of verbosity.
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}
