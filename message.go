package telegrask

import (
	"regexp"

	"github.com/telegrask/telegrask/filter"
)

// Message registers h for messages matching f. Handlers run in registration
// order with first-match-wins semantics. Returns ErrRunning after Run.
func (b *Bot) Message(f filter.Filter, h HandlerFunc) error {
	if b.running.Load() {
		return ErrRunning
	}
	b.router.addMessage(f, h)
	return nil
}

// AddHandler is a low-level alias of Message for custom routing.
func (b *Bot) AddHandler(f filter.Filter, h HandlerFunc) error {
	return b.Message(f, h)
}

// MessageRegexp registers h for messages whose text or caption matches re.
func (b *Bot) MessageRegexp(re *regexp.Regexp, h HandlerFunc) error {
	return b.Message(filter.Regex(re), h)
}

// MessageRegex compiles expr and registers h for matching messages. A plain
// literal string works as well as a full expression.
func (b *Bot) MessageRegex(expr string, h HandlerFunc) error {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Wrapf(err, "telegrask: regex %q", expr)
	}
	return b.MessageRegexp(re, h)
}
