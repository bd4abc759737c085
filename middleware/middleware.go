// Package middleware provides update middleware: chaining, per-user rate
// limiting and an allow-list ACL. Install with (*telegrask.Bot).Use.
package middleware

import (
	"github.com/go-telegram/bot/models"

	"github.com/telegrask/telegrask"
)

// Chain applies middlewares in order around h.
func Chain(h telegrask.HandlerFunc, mws ...telegrask.MiddlewareFunc) telegrask.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// sender identifies the user and chat behind an update, either of which may
// be zero for update types without one.
func sender(upd *models.Update) (userID, chatID int64) {
	if msg := upd.Message; msg != nil {
		chatID = msg.Chat.ID
		if msg.From != nil {
			userID = msg.From.ID
		}
		return userID, chatID
	}
	if q := upd.InlineQuery; q != nil && q.From != nil {
		return q.From.ID, 0
	}
	return 0, 0
}
