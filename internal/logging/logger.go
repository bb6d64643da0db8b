// Package logging provides structured JSON logging for the EduSafe core.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus logger with the context-map helper API used
// throughout the core.
type Logger struct {
	l *logrus.Logger
}

var (
	global *Logger
	once   sync.Once
)

// Init initializes the global logger. Subsequent calls are no-ops.
func Init(out io.Writer, level string) {
	once.Do(func() {
		global = New(out, level)
	})
}

// New creates a Logger writing JSON lines to out at the given minimum
// level ("debug", "info", "warn", "error"). Unknown levels fall back to
// info.
func New(out io.Writer, level string) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return &Logger{l: l}
}

// Get returns the global logger instance.
func Get() *Logger {
	if global == nil {
		Init(os.Stdout, "info")
	}
	return global
}

// Debug logs a debug message.
func (lg *Logger) Debug(message string, context ...map[string]interface{}) {
	lg.entry(nil, context...).Debug(message)
}

// Info logs an info message.
func (lg *Logger) Info(message string, context ...map[string]interface{}) {
	lg.entry(nil, context...).Info(message)
}

// Warn logs a warning message.
func (lg *Logger) Warn(message string, context ...map[string]interface{}) {
	lg.entry(nil, context...).Warn(message)
}

// Error logs an error message.
func (lg *Logger) Error(message string, err error, context ...map[string]interface{}) {
	lg.entry(err, context...).Error(message)
}

// entry merges context maps into a single logrus entry.
func (lg *Logger) entry(err error, context ...map[string]interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for _, c := range context {
		for k, v := range c {
			fields[k] = v
		}
	}
	e := lg.l.WithFields(fields)
	if err != nil {
		e = e.WithError(err)
	}
	return e
}

// Convenience functions using the global logger.

func Debug(message string, context ...map[string]interface{}) {
	Get().Debug(message, context...)
}

func Info(message string, context ...map[string]interface{}) {
	Get().Info(message, context...)
}

func Warn(message string, context ...map[string]interface{}) {
	Get().Warn(message, context...)
}

func Error(message string, err error, context ...map[string]interface{}) {
	Get().Error(message, err, context...)
}
