// Package jitlog provides structured logging for the JIT expression
// path, built on log/slog the way the teacher's internal/logging
// package wraps it.
package jitlog

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

func init() {
	InitLogger(slog.LevelInfo)
}

// InitLogger (re)initializes the package-level logger at the given level.
func InitLogger(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	defaultLogger = slog.New(handler)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }

// JITFallback logs a JIT-path failure that caused a fall back to the
// interpreter, at debug level per spec.md §7 ("Logged at debug").
func JITFallback(symbol string, stage string, err error) {
	defaultLogger.Debug("jit_fallback",
		"symbol", symbol,
		"stage", stage,
		"error", err.Error(),
	)
}
