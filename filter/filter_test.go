package filter

import (
	"regexp"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func msg(text string) *models.Message {
	return &models.Message{
		Text: text,
		Chat: models.Chat{ID: 1, Type: models.ChatTypePrivate},
		From: &models.User{ID: 10},
	}
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		msg  *models.Message
		want bool
	}{
		{"text matches", Text, msg("hi"), true},
		{"text empty", Text, msg(""), false},
		{"command", Command, msg("/start"), true},
		{"command plain text", Command, msg("start"), false},
		{"voice", Voice, &models.Message{Voice: &models.Voice{FileID: "f"}}, true},
		{"voice absent", Voice, msg("hi"), false},
		{"photo", Photo, &models.Message{Photo: []models.PhotoSize{{FileID: "p"}}}, true},
		{"document", Document, &models.Message{Document: &models.Document{FileID: "d"}}, true},
		{"caption", Caption, &models.Message{Caption: "cap"}, true},
		{"private", Private, msg("hi"), true},
		{"group on private chat", Group, msg("hi"), false},
		{"all", All, &models.Message{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f(tt.msg))
		})
	}
}

func TestGroupChatTypes(t *testing.T) {
	for _, typ := range []models.ChatType{models.ChatTypeGroup, models.ChatTypeSupergroup} {
		m := &models.Message{Chat: models.Chat{ID: 1, Type: typ}}
		assert.True(t, Group(m), "type %s", typ)
	}
}

func TestCombinators(t *testing.T) {
	textNotCommand := And(Text, Not(Command))

	assert.True(t, textNotCommand(msg("hello")))
	assert.False(t, textNotCommand(msg("/hello")))
	assert.False(t, textNotCommand(msg("")))

	either := Or(Command, Voice)
	assert.True(t, either(msg("/x")))
	assert.True(t, either(&models.Message{Voice: &models.Voice{FileID: "f"}}))
	assert.False(t, either(msg("plain")))

	// Empty And matches everything, empty Or nothing.
	assert.True(t, And()(msg("x")))
	assert.False(t, Or()(msg("x")))
}

func TestRegex(t *testing.T) {
	f := Regex(regexp.MustCompile(`(?i)\bhelp\b`))
	assert.True(t, f(msg("I need Help now")))
	assert.False(t, f(msg("helpless")))

	// Falls back to the caption when there is no text.
	assert.True(t, f(&models.Message{Caption: "help me"}))
	assert.False(t, f(&models.Message{}))
}

func TestUsersAndChats(t *testing.T) {
	u := Users(10, 20)
	assert.True(t, u(msg("x")))
	assert.False(t, u(&models.Message{From: &models.User{ID: 30}}))
	assert.False(t, u(&models.Message{}))

	c := Chats(1)
	assert.True(t, c(msg("x")))
	assert.False(t, c(&models.Message{Chat: models.Chat{ID: 2}}))
}
