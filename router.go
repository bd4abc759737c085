package telegrask

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/telegrask/telegrask/filter"
)

// route entry: a message predicate paired with its handler. Entries are
// consulted in registration order and the first match wins, so a command
// registered before a broad text filter still takes the update.
type routeEntry struct {
	match filter.Filter
	h     HandlerFunc
}

type router struct {
	mu      sync.RWMutex
	entries []routeEntry
	inline  []HandlerFunc
	log     *slog.Logger
}

func newRouter() *router {
	return &router{log: slog.Default()}
}

func (r *router) addMessage(f filter.Filter, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, routeEntry{match: f, h: h})
}

func (r *router) addInline(h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inline = append(r.inline, h)
}

// route finds the first matching handler for the update. Unmatched updates
// are dropped.
func (r *router) route(ctx context.Context, b *bot.Bot, upd *models.Update) {
	if upd.InlineQuery != nil {
		r.mu.RLock()
		inline := r.inline
		r.mu.RUnlock()
		if len(inline) == 0 {
			r.log.Debug("inline query without handler", slog.Int64("update_id", upd.ID))
			return
		}
		// Inline handlers share python-telegram-bot group semantics: only
		// the first registered handler runs.
		inline[0](ctx, b, upd)
		return
	}

	msg := upd.Message
	if msg == nil {
		return
	}

	r.mu.RLock()
	entries := r.entries
	r.mu.RUnlock()
	for _, e := range entries {
		if e.match(msg) {
			e.h(ctx, b, upd)
			return
		}
	}
	r.log.Debug("no handler for message", slog.Int64("chat_id", msg.Chat.ID))
}

// commandFilter matches /name-style messages against a set of lowercase
// command names. A trailing @botname mention is ignored.
func commandFilter(names map[string]struct{}) filter.Filter {
	return func(msg *models.Message) bool {
		name, ok := parseCommand(msg.Text)
		if !ok {
			return false
		}
		_, ok = names[name]
		return ok
	}
}

// parseCommand extracts the lowercase command name from message text.
// "/Stats@mybot arg" yields "stats".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	token := text[1:]
	if i := strings.IndexAny(token, " \t\n"); i >= 0 {
		token = token[:i]
	}
	if i := strings.IndexByte(token, '@'); i >= 0 {
		token = token[:i]
	}
	if token == "" {
		return "", false
	}
	return strings.ToLower(token), true
}

// CommandArgs returns the whitespace-separated arguments following the
// command token, or nil for non-command text.
func CommandArgs(msg *models.Message) []string {
	if msg == nil || !strings.HasPrefix(msg.Text, "/") {
		return nil
	}
	fields := strings.Fields(msg.Text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}
