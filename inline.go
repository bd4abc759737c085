package telegrask

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Query wraps an inline query update with answering helpers, sparing
// handlers the raw update plumbing.
type Query struct {
	Bot    *bot.Bot
	Update *models.Update
}

// QueryHandlerFunc processes one inline query.
type QueryHandlerFunc func(ctx context.Context, q *Query)

// Raw returns the underlying inline query.
func (q *Query) Raw() *models.InlineQuery { return q.Update.InlineQuery }

// Text returns the typed query string.
func (q *Query) Text() string { return q.Update.InlineQuery.Query }

// Answer sends results for this query.
func (q *Query) Answer(ctx context.Context, results []models.InlineQueryResult) error {
	_, err := q.Bot.AnswerInlineQuery(ctx, &bot.AnswerInlineQueryParams{
		InlineQueryID: q.Update.InlineQuery.ID,
		Results:       results,
	})
	return Wrap(err, "telegrask: answer inline query")
}

// Article builds a text article result, the common case for inline answers.
func Article(id, title, text string) *models.InlineQueryResultArticle {
	return &models.InlineQueryResultArticle{
		ID:                  id,
		Title:               title,
		InputMessageContent: &models.InputTextMessageContent{MessageText: text},
	}
}

// InlineQuery registers h for inline query updates. Only the first
// registered inline handler receives queries. Returns ErrRunning after Run.
func (b *Bot) InlineQuery(h QueryHandlerFunc) error {
	if b.running.Load() {
		return ErrRunning
	}
	b.router.addInline(func(ctx context.Context, api *bot.Bot, upd *models.Update) {
		h(ctx, &Query{Bot: api, Update: upd})
	})
	return nil
}
