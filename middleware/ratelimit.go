package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/telegrask/telegrask"
)

// RateLimiter drops updates from users sending faster than one per interval.
type RateLimiter struct {
	mu       sync.Mutex
	last     map[int64]time.Time
	interval time.Duration
	// Reply, when non-empty, is sent back to rate-limited chats.
	Reply string
}

// NewRateLimiter creates a limiter allowing one update per interval per user.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{last: make(map[int64]time.Time), interval: interval}
}

// Allow records an attempt and reports whether it is within the limit.
func (r *RateLimiter) Allow(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if t, ok := r.last[userID]; ok && now.Sub(t) < r.interval {
		return false
	}
	r.last[userID] = now
	return true
}

// Middleware enforces the limit before calling next.
func (r *RateLimiter) Middleware(next telegrask.HandlerFunc) telegrask.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, upd *models.Update) {
		uid, chat := sender(upd)
		if uid != 0 && !r.Allow(uid) {
			if chat != 0 && r.Reply != "" {
				_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chat, Text: r.Reply})
			}
			return
		}
		next(ctx, b, upd)
	}
}
