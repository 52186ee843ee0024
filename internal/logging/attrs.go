package logging

import (
	"context"
	"log/slog"
)

// Standardized structured logging keys.
const (
	// FieldComponent names the subsystem emitting the line.
	FieldComponent = "component"
	// FieldTitle is the media title being resolved.
	FieldTitle = "title"
	// FieldRecordID is the cache record identifier.
	FieldRecordID = "record_id"
	// FieldAttempt is the 1-based retry attempt number.
	FieldAttempt = "attempt"
)

type Attr = slog.Attr

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

// NewComponentLogger tags the logger with a component name for console output.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopHandler{} }
func (noopHandler) WithGroup(string) slog.Handler             { return noopHandler{} }
