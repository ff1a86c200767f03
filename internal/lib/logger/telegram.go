package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier delivers a plain-text message to the admin chat.
type Notifier interface {
	SendMessage(msg string)
}

// SetupTelegramHandler mirrors records at or above minLevel to the admin
// chat while keeping the original handler as the primary sink.
func SetupTelegramHandler(base *slog.Logger, notifier Notifier, minLevel slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		inner:    base.Handler(),
		notifier: notifier,
		minLevel: minLevel,
	})
}

type telegramHandler struct {
	inner    slog.Handler
	notifier Notifier
	minLevel slog.Level
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= h.minLevel && record.Level >= slog.LevelError {
		msg := fmt.Sprintf("⚠️ %s: %s", record.Level, record.Message)
		record.Attrs(func(a slog.Attr) bool {
			msg += fmt.Sprintf("\n%s: %s", a.Key, a.Value.String())
			return true
		})
		h.notifier.SendMessage(msg)
	}
	return h.inner.Handle(ctx, record)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &telegramHandler{
		inner:    h.inner.WithAttrs(attrs),
		notifier: h.notifier,
		minLevel: h.minLevel,
	}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{
		inner:    h.inner.WithGroup(name),
		notifier: h.notifier,
		minLevel: h.minLevel,
	}
}
