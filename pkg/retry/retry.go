// Package retry implements exponential backoff with jitter for transient
// failures, primarily network calls to the Telegram API.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/url"
	"time"
)

// Config defines retry behavior.
type Config struct {
	// MaxAttempts counts the first try as attempt one.
	MaxAttempts int
	// InitialDelay is the delay before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps backoff growth.
	MaxDelay time.Duration
	// Multiplier grows the delay between attempts.
	Multiplier float64
	// Jitter randomizes each delay by up to ±25% to avoid thundering herd.
	Jitter bool
	// OnRetry, when set, observes each retry decision.
	OnRetry func(attempt int, err error, nextDelay time.Duration)
}

// DefaultConfig returns the configuration used across the library.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

func (c *Config) normalize() error {
	if c.MaxAttempts <= 0 {
		return errors.New("retry: MaxAttempts must be positive")
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 200 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.Multiplier < 1.0 {
		c.Multiplier = 2.0
	}
	return nil
}

// Func is the operation under retry.
type Func func(ctx context.Context) error

// IsRetryableFunc decides whether an error is worth another attempt.
type IsRetryableFunc func(err error) bool

// ExhaustedError reports that all attempts failed.
type ExhaustedError struct {
	LastError error
	Attempts  int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: %d attempts exhausted: %v", e.Attempts, e.LastError)
}

func (e *ExhaustedError) Unwrap() error { return e.LastError }

// Retryable reports whether an error looks transient: timeouts, connection
// resets and short reads. Context cancellation is never retried.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var dnsErr *net.DNSError
		if errors.As(urlErr.Err, &dnsErr) && dnsErr.IsTemporary {
			return true
		}
		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) {
			return true
		}
	}
	return false
}

// Do runs fn with the default transient-error check.
func Do(ctx context.Context, cfg Config, fn Func) error {
	return DoWithRetryable(ctx, cfg, fn, Retryable)
}

// DoWithRetryable runs fn, retrying per cfg while isRetryable approves the
// last error. A non-retryable error is returned unwrapped; exhaustion is
// reported as *ExhaustedError.
func DoWithRetryable(ctx context.Context, cfg Config, fn Func, isRetryable IsRetryableFunc) error {
	if err := cfg.normalize(); err != nil {
		return err
	}

	var lastErr error
	delay := cfg.InitialDelay
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		if !isRetryable(lastErr) {
			return lastErr
		}

		wait := delay
		if cfg.Jitter {
			span := int64(delay / 2)
			if span > 0 {
				wait = delay - delay/4 + time.Duration(rand.Int63n(span))
			}
		}
		if wait > cfg.MaxDelay {
			wait = cfg.MaxDelay
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr, wait)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return &ExhaustedError{LastError: lastErr, Attempts: cfg.MaxAttempts}
}

// Retry runs fn with DefaultConfig.
func Retry(ctx context.Context, fn Func) error {
	return Do(ctx, DefaultConfig(), fn)
}

// WithAttempts runs fn with DefaultConfig and a custom attempt limit.
func WithAttempts(ctx context.Context, maxAttempts int, fn Func) error {
	cfg := DefaultConfig()
	cfg.MaxAttempts = maxAttempts
	return Do(ctx, cfg, fn)
}
