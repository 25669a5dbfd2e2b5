// Package correlation carries request and connection ids through a context and stamps them
// onto every log record written with that context.
package correlation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type idKey struct{}

type connKey struct{}

// NewID returns a short random id for one HTTP request.
func NewID() string {
	return uuid.NewString()[:8]
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// ID returns the correlation id of ctx; ok is false when absent or empty.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok && id != ""
}

// WithConnection tags ctx with a WebSocket connection id.
func WithConnection(ctx context.Context, connID string) context.Context {
	return context.WithValue(ctx, connKey{}, connID)
}

func Connection(ctx context.Context) (string, bool) {
	connID, ok := ctx.Value(connKey{}).(string)
	return connID, ok && connID != ""
}

// Handler adds correlation_id and conn_id attributes when the context carries them.
type Handler struct {
	inner slog.Handler
}

func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	if connID, ok := Connection(ctx); ok {
		r.AddAttrs(slog.String("conn_id", connID))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
