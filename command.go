package telegrask

import (
	"strings"

	"github.com/telegrask/telegrask/filter"
)

// CommandParams describes a command registration.
type CommandParams struct {
	// Commands lists the names answering the handler; the first one is the
	// canonical name shown in the generated help.
	Commands []string

	// Help is the one-line description aggregated into /help. Required
	// unless help generation is disabled.
	Help string

	// AllowWithoutPrefix additionally routes plain (non-command) text
	// messages to the same handler.
	AllowWithoutPrefix bool
}

// Command registers h for /name-style messages matching any of
// params.Commands. While help generation is enabled every command must carry
// help text; registration without it fails with ErrHelpMissing.
func (b *Bot) Command(params CommandParams, h HandlerFunc) error {
	if b.running.Load() {
		return ErrRunning
	}
	return b.addCommand(params, h)
}

// addCommand registers without the running guard. Run uses it for the
// generated help command after flipping the guard.
func (b *Bot) addCommand(params CommandParams, h HandlerFunc) error {
	if len(params.Commands) == 0 {
		return ErrNoCommands
	}

	names := make(map[string]struct{}, len(params.Commands))
	for _, c := range params.Commands {
		c = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c), "/"))
		if c == "" {
			return ErrNoCommands
		}
		names[c] = struct{}{}
	}

	if b.helpEnabled {
		if params.Help == "" {
			return Wrapf(ErrHelpMissing, "command %q", params.Commands[0])
		}
		canonical := strings.ToLower(strings.TrimPrefix(params.Commands[0], "/"))
		b.help.add(canonical, params.Help)
	}

	b.router.addMessage(commandFilter(names), h)

	if params.AllowWithoutPrefix {
		b.router.addMessage(filter.And(filter.Text, filter.Not(filter.Command)), h)
	}
	return nil
}
