package ctxlogger

import (
	"context"

	"go.uber.org/zap"
)

type operationKey struct{}

type subjectKey struct{}

// ContextWithOperationID tags every log entry written under ctx with the id
// of the command that produced it.
func ContextWithOperationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey{}, id)
}

// OperationID returns the id set by ContextWithOperationID, if any.
func OperationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(operationKey{}).(string)
	return id
}

// ContextWithSubject annotates the context with the registration code being
// worked on.
func ContextWithSubject(ctx context.Context, code string) context.Context {
	if code == "" {
		return ctx
	}
	return context.WithValue(ctx, subjectKey{}, code)
}

// FromContext returns the global logger enriched with metadata from ctx.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext enriches base with the operation id and subject found in ctx.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil {
		return base
	}

	fields := make([]zap.Field, 0, 2)
	if id := OperationID(ctx); id != "" {
		fields = append(fields, zap.String("operation_id", id))
	}
	if code, ok := ctx.Value(subjectKey{}).(string); ok && code != "" {
		fields = append(fields, zap.String("code", code))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
