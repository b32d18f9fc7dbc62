package bgg

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CollectionOptions controls the collection listing query.
type CollectionOptions struct {
	// OwnedOnly restricts the listing to games the user owns.
	OwnedOnly bool
	// ExcludeExpansions drops expansion entries from the listing.
	ExcludeExpansions bool
}

// GetCollection retrieves a user's collection with statistics. BGG
// computes collections asynchronously; the fetch layer already retries
// through 202 responses, but the interstitial "still processing" page can
// also arrive with a 200 status, so the payload is checked again here and
// surfaced as a retryable ProcessingError with a backoff hint.
func (c *Client) GetCollection(ctx context.Context, username string, opts CollectionOptions) ([]CollectionEntry, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	query := url.Values{}
	query.Set("username", username)
	query.Set("stats", "1")
	if opts.OwnedOnly {
		query.Set("own", "1")
	}
	if opts.ExcludeExpansions {
		query.Set("excludesubtype", "boardgameexpansion")
	}

	resp, err := c.fetchWithRetry(ctx, c.endpointURL("/collection", query))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Kind: "user", Name: username}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "collection lookup failed"}
	}

	payload, err := parsePayload(resp.Body)
	if err != nil {
		return nil, err
	}

	if isProcessingPayload(payload) {
		return nil, &ProcessingError{Attempts: c.retryAttempts, SuggestedBackoff: 30 * time.Second}
	}

	// BGG reports an unknown username inside a 200 response for this
	// endpoint.
	if _, ok := payload.Get("error"); ok {
		return nil, &NotFoundError{Kind: "user", Name: username}
	}

	return extractCollection(payload), nil
}
