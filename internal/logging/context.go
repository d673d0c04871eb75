package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCaptureID is the standardized structured logging key for capture identifiers.
	FieldCaptureID = "capture_id"
	// FieldCommand is the standardized structured logging key for the CLI command path.
	FieldCommand = "command"
)

type contextKey int

const (
	captureIDKey contextKey = iota
	commandKey
)

// WithCaptureID tags ctx with the capture a command operates on.
func WithCaptureID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, captureIDKey, id)
}

// WithCommand tags ctx with the CLI command path.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if id, ok := ctx.Value(captureIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldCaptureID, id))
	}
	if cmd, ok := ctx.Value(commandKey).(string); ok && cmd != "" {
		fields = append(fields, slog.String(FieldCommand, cmd))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
