// Package filter provides message predicates for handler registration.
//
// Filters select which messages a handler receives. They compose with
// And, Or and Not:
//
//	bot.Message(filter.And(filter.Text, filter.Not(filter.Command)), h)
package filter

import (
	"regexp"
	"strings"

	"github.com/go-telegram/bot/models"
)

// Filter reports whether a message should be passed to a handler.
type Filter func(msg *models.Message) bool

// And matches when every filter matches.
func And(fs ...Filter) Filter {
	return func(msg *models.Message) bool {
		for _, f := range fs {
			if !f(msg) {
				return false
			}
		}
		return true
	}
}

// Or matches when at least one filter matches.
func Or(fs ...Filter) Filter {
	return func(msg *models.Message) bool {
		for _, f := range fs {
			if f(msg) {
				return true
			}
		}
		return false
	}
}

// Not inverts a filter.
func Not(f Filter) Filter {
	return func(msg *models.Message) bool { return !f(msg) }
}

// All matches every message.
func All(*models.Message) bool { return true }

// Text matches messages with non-empty text.
func Text(msg *models.Message) bool { return msg.Text != "" }

// Command matches messages whose text starts with the "/" prefix.
func Command(msg *models.Message) bool { return strings.HasPrefix(msg.Text, "/") }

// Caption matches messages carrying a media caption.
func Caption(msg *models.Message) bool { return msg.Caption != "" }

// Voice matches voice notes.
func Voice(msg *models.Message) bool { return msg.Voice != nil }

// Audio matches audio files.
func Audio(msg *models.Message) bool { return msg.Audio != nil }

// Photo matches messages with at least one photo size.
func Photo(msg *models.Message) bool { return len(msg.Photo) > 0 }

// Video matches video messages.
func Video(msg *models.Message) bool { return msg.Video != nil }

// Document matches messages with an attached document.
func Document(msg *models.Message) bool { return msg.Document != nil }

// Sticker matches sticker messages.
func Sticker(msg *models.Message) bool { return msg.Sticker != nil }

// Location matches messages with a location attachment.
func Location(msg *models.Message) bool { return msg.Location != nil }

// Contact matches shared contacts.
func Contact(msg *models.Message) bool { return msg.Contact != nil }

// Forwarded matches forwarded messages.
func Forwarded(msg *models.Message) bool { return msg.ForwardOrigin != nil }

// Private matches messages from one-on-one chats.
func Private(msg *models.Message) bool { return msg.Chat.Type == models.ChatTypePrivate }

// Group matches messages from group and supergroup chats.
func Group(msg *models.Message) bool {
	return msg.Chat.Type == models.ChatTypeGroup || msg.Chat.Type == models.ChatTypeSupergroup
}

// Regex matches messages whose text or caption matches the pattern.
func Regex(re *regexp.Regexp) Filter {
	return func(msg *models.Message) bool {
		if msg.Text != "" {
			return re.MatchString(msg.Text)
		}
		return msg.Caption != "" && re.MatchString(msg.Caption)
	}
}

// Users matches messages sent by any of the given user IDs.
func Users(ids ...int64) Filter {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(msg *models.Message) bool {
		if msg.From == nil {
			return false
		}
		_, ok := set[msg.From.ID]
		return ok
	}
}

// Chats matches messages from any of the given chat IDs.
func Chats(ids ...int64) Filter {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(msg *models.Message) bool {
		_, ok := set[msg.Chat.ID]
		return ok
	}
}
