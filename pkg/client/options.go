package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/goliatone/go-churnform/internal/logger"
)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for every call.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
// Zero disables the timeout, leaving cancellation to the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		clone := *c.http
		clone.Timeout = timeout
		c.http = &clone
	}
}

// WithLogger routes request logs through log.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithLatencyHeader changes the header parsed for processing time.
func WithLatencyHeader(name string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			c.latencyHeader = trimmed
		}
	}
}

// WithHealthRetries retries a failed health probe up to n extra times with
// exponential backoff. Prediction calls are never retried.
func WithHealthRetries(n uint64) Option {
	return func(c *Client) {
		c.healthRetries = n
	}
}

// WithHealthBackOff replaces the backoff policy used between health retries.
func WithHealthBackOff(fn func() backoff.BackOff) Option {
	return func(c *Client) {
		if fn != nil {
			c.healthBackoff = fn
		}
	}
}
