// Package logger builds slog loggers for bot applications: colored console
// output, optional rotated JSON file output, and redaction of bot tokens
// and other secrets.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// sensitiveKeys are attribute names whose values never reach log output.
var sensitiveKeys = map[string]struct{}{
	"token":   {},
	"secret":  {},
	"api_key": {},
	"dsn":     {},
}

// Options define logger construction parameters.
type Options struct {
	// App tags every record with the application name.
	App string
	// Dev switches the console handler to a compact development format.
	Dev bool
	// ConsoleLevel defaults to info.
	ConsoleLevel string
	// FileLevel defaults to debug.
	FileLevel string
	// File enables rotated JSON file output when non-empty.
	File string
}

// New creates a configured *slog.Logger and a closer releasing the file
// writer, if any. The closer is never nil.
func New(o Options) (*slog.Logger, io.Closer) {
	timeFormat := time.RFC3339
	if o.Dev {
		timeFormat = time.Kitchen
	}

	console := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      Level(o.ConsoleLevel, slog.LevelInfo),
		TimeFormat: timeFormat,
	})

	handlers := []slog.Handler{redacting{console}}
	closer := io.Closer(nopCloser{})

	if o.File != "" {
		fw := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		closer = fw
		file := slog.NewJSONHandler(fw, &slog.HandlerOptions{
			Level: Level(o.FileLevel, slog.LevelDebug),
		})
		handlers = append(handlers, redacting{file})
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}

	l := slog.New(h)
	if o.App != "" {
		l = l.With(slog.String("app", o.App))
	}
	return l, closer
}

// Level parses a level name, falling back to def.
func Level(s string, def slog.Level) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// redacting masks sensitive attributes before delegating.
type redacting struct {
	inner slog.Handler
}

func (h redacting) Enabled(ctx context.Context, l slog.Level) bool {
	return h.inner.Enabled(ctx, l)
}

func (h redacting) Handle(ctx context.Context, r slog.Record) error {
	nr := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(sanitize(a))
		return true
	})
	return h.inner.Handle(ctx, nr)
}

func (h redacting) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = sanitize(a)
	}
	return redacting{h.inner.WithAttrs(out)}
}

func (h redacting) WithGroup(name string) slog.Handler {
	return redacting{h.inner.WithGroup(name)}
}

func sanitize(a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, "[REDACTED]")
	}
	if s, ok := a.Value.Any().(string); ok && looksLikeBotToken(s) {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}

// looksLikeBotToken matches the "<digits>:<alnum…>" shape of Telegram bot
// tokens regardless of the attribute name.
func looksLikeBotToken(s string) bool {
	i := strings.IndexByte(s, ':')
	if i < 5 || len(s)-i < 30 {
		return false
	}
	for _, r := range s[:i] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// fanout duplicates records to multiple handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
