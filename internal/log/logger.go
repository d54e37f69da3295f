// Package log wraps logrus behind the small package-level API the rest
// of the application uses. Output goes to stdout; SetFile additionally
// mirrors everything into a size-rotated log file.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Field is a single structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// F builds a structured logging field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogWithFields returns an entry carrying the given structured fields
func LogWithFields(fields ...Field) *logrus.Entry {
	f := make(logrus.Fields, len(fields))
	for _, field := range fields {
		f[field.Key] = field.Value
	}
	return logger.WithFields(f)
}

// SetDebug toggles debug-level logging
func SetDebug(debug bool) {
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// SetLevel sets the log level by name; unknown names keep the current level.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Warn("Unknown log level, keeping current", level)
		return
	}
	logger.SetLevel(parsed)
}

// SetFile mirrors log output into a rotating file at path.
func SetFile(path string) {
	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, rotating))
}

// SetOutput redirects all log output; used by tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	logger.Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	logger.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	logger.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}
