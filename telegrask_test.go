package telegrask

import (
	"context"
	"log/slog"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestBot builds a Bot without touching the Telegram API.
func newTestBot(opts ...Option) *Bot {
	b := &Bot{
		log:         slog.Default(),
		router:      newRouter(),
		help:        newHelpIndex(),
		store:       NewMemoryStore(),
		workers:     2,
		helpEnabled: true,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

func textUpdate(chatID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			Text: text,
			Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
			From: &models.User{ID: chatID},
		},
	}
}

func inlineUpdate(userID int64, query string) *models.Update {
	return &models.Update{
		InlineQuery: &models.InlineQuery{
			ID:    "q1",
			From:  &models.User{ID: userID},
			Query: query,
		},
	}
}

// canceledCtx returns an already-canceled context so Run exits right after
// startup.
func canceledCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestRunRegistersGeneratedHelp(t *testing.T) {
	b := newTestBot()
	b.api = &bot.Bot{}

	require.NoError(t, b.Run(canceledCtx()))

	assert.Contains(t, b.Help(), "help")

	// The running guard applies to registrations, not to Run's own help
	// command.
	err := b.Command(CommandParams{Commands: []string{"late"}, Help: "x"}, nopHandler)
	assert.ErrorIs(t, err, ErrRunning)
}

func TestRunTwice(t *testing.T) {
	b := newTestBot()
	b.api = &bot.Bot{}

	require.NoError(t, b.Run(canceledCtx()))
	assert.ErrorIs(t, b.Run(canceledCtx()), ErrRunning)
}

func TestRunHelpDisabled(t *testing.T) {
	b := newTestBot(WithHelpDisabled())
	b.api = &bot.Bot{}

	require.NoError(t, b.Run(canceledCtx()))
	assert.Empty(t, b.Help())
}

func TestRunKeepsCustomHelp(t *testing.T) {
	b := newTestBot()
	b.api = &bot.Bot{}
	require.NoError(t, b.CustomHelpCommand(
		func(context.Context, *bot.Bot, *models.Update, map[string]string) {}))

	require.NoError(t, b.Run(canceledCtx()))
	assert.Equal(t, map[string]string{"help": "display this message"}, b.Help())
}
