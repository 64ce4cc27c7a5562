// Package logging provides the logger abstraction used across the
// pipeline stages, plus a zap-backed implementation for binaries.
package logging

import (
	"go.uber.org/zap"
)

// keyValuePairSize represents the number of elements in a key-value pair.
const keyValuePairSize = 2

// Logger defines the interface for structured logging in the pipeline.
// Stages depend on this rather than a concrete logger so tests can pass
// a no-op implementation.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
}

// ZapAdapter wraps a zap logger to match the Logger interface.
type ZapAdapter struct {
	log *zap.Logger
}

// NewZapAdapter creates a new zap-backed logger adapter.
func NewZapAdapter(log *zap.Logger) *ZapAdapter {
	return &ZapAdapter{log: log}
}

// NewProduction builds an adapter around zap's production config.
func NewProduction() (*ZapAdapter, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapAdapter(log), nil
}

// Info logs an info message with key-value pairs.
func (a *ZapAdapter) Info(msg string, keysAndValues ...any) {
	a.log.Info(msg, toFields(keysAndValues)...)
}

// Error logs an error message with key-value pairs.
func (a *ZapAdapter) Error(msg string, keysAndValues ...any) {
	a.log.Error(msg, toFields(keysAndValues)...)
}

// Warn logs a warning message with key-value pairs.
func (a *ZapAdapter) Warn(msg string, keysAndValues ...any) {
	a.log.Warn(msg, toFields(keysAndValues)...)
}

// Debug logs a debug message with key-value pairs.
func (a *ZapAdapter) Debug(msg string, keysAndValues ...any) {
	a.log.Debug(msg, toFields(keysAndValues)...)
}

// Sync flushes buffered log entries.
func (a *ZapAdapter) Sync() error {
	return a.log.Sync()
}

// toFields converts key-value pairs to zap fields.
func toFields(keysAndValues []any) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/keyValuePairSize)
	for i := 0; i+1 < len(keysAndValues); i += keyValuePairSize {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

// Nop is a Logger that discards everything. Used in tests.
type Nop struct{}

// Info implements Logger.
func (Nop) Info(string, ...any) {}

// Error implements Logger.
func (Nop) Error(string, ...any) {}

// Warn implements Logger.
func (Nop) Warn(string, ...any) {}

// Debug implements Logger.
func (Nop) Debug(string, ...any) {}
