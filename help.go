package telegrask

import (
	"context"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// helpIndex aggregates command descriptions in registration order and
// renders the generated /help message.
type helpIndex struct {
	mu    sync.RWMutex
	order []string
	desc  map[string]string
}

func newHelpIndex() *helpIndex {
	return &helpIndex{desc: make(map[string]string)}
}

func (h *helpIndex) add(command, help string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.desc[command]; !ok {
		h.order = append(h.order, command)
	}
	h.desc[command] = help
}

// content renders the Markdown help text.
func (h *helpIndex) content() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var sb strings.Builder
	sb.WriteString("*Available commands*\n")
	for _, c := range h.order {
		sb.WriteString("\n/")
		sb.WriteString(c)
		sb.WriteString(" — ")
		sb.WriteString(h.desc[c])
	}
	return sb.String()
}

// descriptions returns a copy of the command description map.
func (h *helpIndex) descriptions() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]string, len(h.desc))
	for k, v := range h.desc {
		out[k] = v
	}
	return out
}

// HelpHandlerFunc renders a custom help message; descriptions maps command
// names to their registered help text.
type HelpHandlerFunc func(ctx context.Context, b *bot.Bot, upd *models.Update, descriptions map[string]string)

// Help returns the currently aggregated command descriptions.
func (b *Bot) Help() map[string]string { return b.help.descriptions() }

// CustomHelpCommand replaces the generated help message. The handler is
// registered for /help and /start and receives the aggregated descriptions.
func (b *Bot) CustomHelpCommand(h HelpHandlerFunc) error {
	if b.running.Load() {
		return ErrRunning
	}
	b.customHelp = true
	return b.Command(CommandParams{
		Commands: []string{"help", "start"},
		Help:     "display this message",
	}, func(ctx context.Context, api *bot.Bot, upd *models.Update) {
		h(ctx, api, upd, b.help.descriptions())
	})
}

func (b *Bot) defaultHelpHandler(ctx context.Context, _ *bot.Bot, upd *models.Update) {
	b.sendText(ctx, upd.Message.Chat.ID, b.help.content(), models.ParseModeMarkdown)
}
