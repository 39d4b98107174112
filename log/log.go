// Package log provides structured logging on top of logrus with optional filesystem-based persistence.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/where"
)

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
}

// Setup configures sink, formatter and severity from the global configuration.
// Without logs.write, entries at or above the configured level go to stderr.
func Setup() error {
	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.WarnLevel
	}
	logrus.SetLevel(parsed)

	if !viper.GetBool(key.LogsWrite) {
		logrus.SetOutput(os.Stderr)
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	return nil
}

// SetOutput redirects every subsequent entry, mostly for tests.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// WithField returns an entry carrying a single structured field.
func WithField(key string, value any) *logrus.Entry {
	return logrus.WithField(key, value)
}

// WithFields returns an entry carrying several structured fields.
func WithFields(fields map[string]any) *logrus.Entry {
	return logrus.WithFields(fields)
}

// Severity-specific emissions proxied to the configured backend.

func Error(args ...any) {
	logrus.Error(args...)
}
func Errorf(format string, args ...any) {
	logrus.Errorf(format, args...)
}
func Warn(args ...any) {
	logrus.Warn(args...)
}
func Warnf(format string, args ...any) {
	logrus.Warnf(format, args...)
}
func Info(args ...any) {
	logrus.Info(args...)
}
func Infof(format string, args ...any) {
	logrus.Infof(format, args...)
}
func Debug(args ...any) {
	logrus.Debug(args...)
}
func Debugf(format string, args ...any) {
	logrus.Debugf(format, args...)
}
func Trace(args ...any) {
	logrus.Trace(args...)
}
func Tracef(format string, args ...any) {
	logrus.Tracef(format, args...)
}
