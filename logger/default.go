package logger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/philipp01105/logdispatch/core"
)

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
	defaultOnce   sync.Once
)

// initDefault builds the default logger from the environment on first use.
// A broken configuration is fatal: it is reported on stderr and the process
// exits with status 2.
func initDefault() {
	l, err := FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logdispatch: %v\n", err)
		osExit(2)
		return
	}
	defaultMu.Lock()
	if defaultLogger == nil {
		defaultLogger = l
	}
	defaultMu.Unlock()
}

// Default returns the default logger
func Default() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultOnce.Do(initDefault)
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(msg string, fields ...core.Field) {
	logDefault(core.DebugLevel, msg, fields)
}

// Info logs an info message using the default logger
func Info(msg string, fields ...core.Field) {
	logDefault(core.InfoLevel, msg, fields)
}

// Warn logs a warning message using the default logger
func Warn(msg string, fields ...core.Field) {
	logDefault(core.WarnLevel, msg, fields)
}

// Problem logs a recoverable problem using the default logger
func Problem(msg string, fields ...core.Field) {
	logDefault(core.ProblemLevel, msg, fields)
}

// Error logs an error message using the default logger
func Error(msg string, fields ...core.Field) {
	logDefault(core.ErrorLevel, msg, fields)
}

// Fatal logs a fatal message using the default logger and exits the program
func Fatal(msg string, fields ...core.Field) {
	Default().Fatal(msg, fields...)
}

// Debugf logs a formatted debug message using the default logger
func Debugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	Default().Infof(format, args...)
}

// Warnf logs a formatted warning message using the default logger
func Warnf(format string, args ...interface{}) {
	Default().Warnf(format, args...)
}

// Problemf logs a formatted problem message using the default logger
func Problemf(format string, args ...interface{}) {
	Default().Problemf(format, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
}

// With creates a new logger with additional fields
func With(fields ...core.Field) *Logger {
	return Default().With(fields...)
}

// Typed creates a new default logger carrying the message type label
func Typed(label string) *Logger {
	return Default().Typed(label)
}

func logDefault(level core.Level, msg string, fields []core.Field) {
	l := Default()
	if level < l.level {
		return
	}
	// skip logDefault as well as the exported wrapper
	_ = l.log(context.Background(), 1, level, msg, fields)
}
