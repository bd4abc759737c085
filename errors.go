package telegrask

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors returned by the registration and dispatch API.
var (
	// ErrHelpMissing indicates a command was registered without help text
	// while help generation is enabled.
	ErrHelpMissing = errors.New("telegrask: command help not provided")

	// ErrNoCommands indicates a command registration with an empty name list.
	ErrNoCommands = errors.New("telegrask: no command names given")

	// ErrRunning indicates registration was attempted after Run started.
	ErrRunning = errors.New("telegrask: bot already running")

	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("telegrask: not found")

	// ErrNoHandler indicates an update matched no registered handler.
	ErrNoHandler = errors.New("telegrask: no handler for update")
)

// Wrap wraps an error with additional context, formatting as "context: err".
// A nil error or empty context passes through unchanged.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	if context == "" {
		return err
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsCanceled reports whether the error stems from a canceled context.
func IsCanceled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

// IsTimeout reports whether the error indicates a timeout, either a context
// deadline or a network-level timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
