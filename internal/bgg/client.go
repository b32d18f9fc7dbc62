// Package bgg provides a client for the BoardGameGeek XMLAPI2.
package bgg

import (
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lepinkainen/meeple/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://boardgamegeek.com/xmlapi2"
	defaultMaxAttempts   = 5
	defaultRetryDelay    = 2 * time.Second
	defaultBatchDelay    = 2 * time.Second
	defaultRatePerSecond = 1.0 // BGG throttles aggressively during bulk fetches
	defaultMemoSize      = 512

	// thingBatchSize is the per-call id limit that the thing endpoint
	// enforces upstream.
	thingBatchSize = 20

	// playsPageSize is the fixed page size of the plays endpoint.
	playsPageSize = 100
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a BGG XMLAPI2 client.
type Client struct {
	baseURL       string
	token         string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int
	retryDelay    time.Duration
	batchDelay    time.Duration
	memo          *lru.Cache[int, GameDetail]
	sleep         func(time.Duration)
}

// NewClient creates a new BGG API client.
func NewClient(opts ...Option) *Client {
	memo, _ := lru.New[int, GameDetail](defaultMemoSize)
	client := &Client{
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		rateLimiter:   ratelimit.New("BGG", defaultRatePerSecond),
		retryAttempts: defaultMaxAttempts,
		retryDelay:    defaultRetryDelay,
		batchDelay:    defaultBatchDelay,
		memo:          memo,
		sleep:         time.Sleep,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL, e.g. a credential-injecting proxy in
// front of the real API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithToken sets a bearer token attached to every request. Leave empty
// when requests go through a proxy that injects the credential itself.
func WithToken(token string) Option {
	return func(client *Client) {
		client.token = token
	}
}

// WithRetryAttempts sets the retry ceiling for processing and transient
// failures.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRetryDelay sets the initial backoff interval. The interval doubles
// on each retry.
func WithRetryDelay(delay time.Duration) Option {
	return func(client *Client) {
		if delay > 0 {
			client.retryDelay = delay
		}
	}
}

// WithBatchDelay sets the courtesy pause between sequential detail
// batches. This is preventative pacing, not error backoff.
func WithBatchDelay(delay time.Duration) Option {
	return func(client *Client) {
		if delay >= 0 {
			client.batchDelay = delay
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}
