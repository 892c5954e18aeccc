// Package esi provides a client for the EVE Swagger Interface (ESI) market
// and universe endpoints: paginated order-book retrieval with bounded retry
// and exponential backoff, and bulk type-name resolution.
package esi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Client is the ESI REST client.
type Client struct {
	baseURL    string
	datasource string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates an ESI client for the given API root (e.g.
// "https://esi.evetech.net/latest") and datasource (e.g. "tranquility").
func NewClient(baseURL, datasource string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		datasource: datasource,
		userAgent:  "MarketSpreadSniper",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   5,
		retryBackoff: 2 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration. max bounds the total number of
// attempts per page request; backoff is the delay before the first retry and
// doubles after each failure.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.With(slog.String("component", "esi"))
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request. ESI asks
// consumers to identify themselves with contact information.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// APIError is a non-2xx response from ESI.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("esi: status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsRetryable reports whether the status usually clears on retry. The order
// fetcher retries every failure regardless; this exists for callers that want
// to distinguish throttling from hard errors in logs.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}
