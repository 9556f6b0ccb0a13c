package api

import (
	"net/http"
	"time"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithTokenSource sets the bearer token provider. Requests made while
// the source returns "" carry no Authorization header.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.token = src
	}
}

// WithAuthRejectHook sets the callback invoked when the backend rejects
// the token with 401/403.
func WithAuthRejectHook(fn func()) Option {
	return func(c *Client) {
		c.onAuthReject = fn
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom http.Client for making requests.
// Useful for testing, proxying, or custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}
