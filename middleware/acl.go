package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/telegrask/telegrask"
)

// ACL restricts the bot to an allow-list of Telegram user IDs. An empty
// list allows everyone.
type ACL struct {
	allowed map[int64]struct{}
	// Reply, when non-empty, is sent back to denied chats.
	Reply string
}

// NewACL creates an ACL from a list of user IDs.
func NewACL(ids []int64) *ACL {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return &ACL{allowed: m}
}

// IsAllowed reports whether the user may use the bot.
func (a *ACL) IsAllowed(id int64) bool {
	if len(a.allowed) == 0 {
		return true
	}
	_, ok := a.allowed[id]
	return ok
}

// Middleware blocks handlers for users outside the allow-list. Updates
// without an identifiable sender pass through.
func (a *ACL) Middleware(next telegrask.HandlerFunc) telegrask.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, upd *models.Update) {
		uid, chat := sender(upd)
		if uid == 0 || a.IsAllowed(uid) {
			next(ctx, b, upd)
			return
		}
		if chat != 0 && a.Reply != "" {
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chat, Text: a.Reply})
		}
	}
}

// ParseAllowedIDs parses a comma or whitespace separated ID list, as found
// in environment configuration. Malformed entries are skipped.
func ParseAllowedIDs(s string) []int64 {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
