// Package httpclient wraps net/http with logging, sane transport limits and
// retries on transient failures and retryable status codes.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/telegrask/telegrask/pkg/retry"
)

// Client is a retrying HTTP client.
type Client struct {
	hc    *http.Client
	log   *slog.Logger
	retry retry.Config
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(t time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = t }
}

// WithLogger sets the logger for request outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithTransport sets a custom transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.hc.Transport = rt
		}
	}
}

// New creates a configured Client.
func New(opts ...Option) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConns = 100
	tr.MaxIdleConnsPerHost = 100
	tr.IdleConnTimeout = 90 * time.Second
	tr.ResponseHeaderTimeout = 10 * time.Second

	c := &Client{
		hc:    &http.Client{Timeout: 15 * time.Second, Transport: tr},
		log:   slog.Default(),
		retry: retry.DefaultConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StatusError reports a retry-exhausting HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: status %d", e.Code)
}

// retryableStatus matches the Telegram file API failure modes worth another
// attempt: rate limiting and transient upstream errors.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Do executes a request with retries. Only bodyless requests are replayed;
// requests with a body are sent once. The response body of a retried
// attempt is always closed before the next attempt.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.GetBody == nil {
		return c.hc.Do(req.WithContext(ctx))
	}

	cfg := c.retry
	cfg.OnRetry = func(attempt int, err error, next time.Duration) {
		c.log.Debug("http retry",
			slog.String("url", redact(req.URL)),
			slog.Int("attempt", attempt),
			slog.Duration("next_delay", next),
			slog.Any("err", err))
	}

	var resp *http.Response
	err := retry.DoWithRetryable(ctx, cfg, func(ctx context.Context) error {
		attempt := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return err
			}
			attempt.Body = body
		}
		r, err := c.hc.Do(attempt)
		if err != nil {
			return err
		}
		if retryableStatus(r.StatusCode) {
			r.Body.Close()
			return &StatusError{Code: r.StatusCode}
		}
		resp = r
		return nil
	}, func(err error) bool {
		var se *StatusError
		if errors.As(err, &se) {
			return true
		}
		return retry.Retryable(err)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get is a convenience wrapper around Do.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// redact strips query strings and path segments that may carry the bot
// token (Telegram file URLs embed it in the path).
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/…(" + strconv.Itoa(len(u.Path)) + " path bytes)"
}
