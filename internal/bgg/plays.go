package bgg

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetPlays retrieves a user's complete play history. The plays endpoint
// pages at a fixed size; pages are requested until one comes back short,
// then the accumulated records are returned as a single slice.
func (c *Client) GetPlays(ctx context.Context, username string) ([]Play, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	var all []Play
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("username", username)
		query.Set("page", strconv.Itoa(page))

		resp, err := c.fetchWithRetry(ctx, c.endpointURL("/plays", query))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Kind: "user", Name: username}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: "plays lookup failed"}
		}

		payload, err := parsePayload(resp.Body)
		if err != nil {
			return nil, err
		}

		plays := extractPlays(payload)
		all = append(all, plays...)
		slog.Debug("Fetched plays page", "page", page, "records", len(plays))

		if len(plays) < playsPageSize {
			return all, nil
		}
	}
}
