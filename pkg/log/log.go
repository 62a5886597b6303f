// Package log provides the logging façade used across the engine. Every
// component takes a Logger rather than reaching for a package-level global,
// so callers can wire in their own logrus instance (or any other
// logrus.FieldLogger-compatible logger).
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus.FieldLogger the engine depends on.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
}

type logrusLogger struct {
	logger logrus.FieldLogger
}

// NewLogger builds a Logger backed by logrus, formatted as JSON in
// production and text during development.
func NewLogger(level logrus.Level, json bool) Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(os.Stderr)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &logrusLogger{logger: l}
}

// Wrap adapts an existing logrus.FieldLogger (e.g. one already configured by
// the host application) into a Logger.
func Wrap(l logrus.FieldLogger) Logger {
	return &logrusLogger{logger: l}
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.logger.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.logger.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.logger.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.logger.Errorf(format, args...) }

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{logger: l.logger.WithField(key, value)}
}

// Nop returns a Logger that discards everything, for use in tests that don't
// care about log output.
func Nop() Logger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return &logrusLogger{logger: l}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
