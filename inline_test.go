package telegrask

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestArticle(t *testing.T) {
	a := Article("echo", "Echo", "hello back")
	assert.Equal(t, "echo", a.ID)
	assert.Equal(t, "Echo", a.Title)
	content, ok := a.InputMessageContent.(*models.InputTextMessageContent)
	if assert.True(t, ok) {
		assert.Equal(t, "hello back", content.MessageText)
	}
}

func TestQueryAccessors(t *testing.T) {
	upd := inlineUpdate(42, "search term")
	q := &Query{Update: upd}

	assert.Equal(t, "search term", q.Text())
	assert.Same(t, upd.InlineQuery, q.Raw())
}
