// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// AppendCtx returns a context carrying attrs. Every record logged with that
// context through a Logger from this package includes them.
func AppendCtx(ctx context.Context, attrs ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		attrs = append(existing[:len(existing):len(existing)], attrs...)
	}
	return context.WithValue(ctx, ctxKey{}, attrs)
}

// ctxHandler injects context attributes appended via AppendCtx.
type ctxHandler struct {
	slog.Handler
}

func (h ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h ctxHandler) WithGroup(name string) slog.Handler {
	return ctxHandler{h.Handler.WithGroup(name)}
}

// Logger builds a slog.Logger writing to w at the given level, as text or
// JSON.
func Logger(w io.Writer, jsonOut bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if jsonOut {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(ctxHandler{h})
}

// RotatingLogger builds a slog.Logger writing to path with size-based
// rotation.
func RotatingLogger(path string, jsonOut bool, level slog.Level) *slog.Logger {
	return Logger(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, jsonOut, level)
}
