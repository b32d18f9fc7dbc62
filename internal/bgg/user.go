package bgg

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ValidateUsername checks that a BGG user exists and returns their record.
// An empty or whitespace-only username fails immediately without a network
// call. A missing user is reported as a NotFoundError, which callers must
// not retry.
func (c *Client) ValidateUsername(ctx context.Context, username string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, ErrEmptyUsername
	}

	query := url.Values{}
	query.Set("name", username)

	resp, err := c.fetchWithRetry(ctx, c.endpointURL("/user", query))
	if err != nil {
		return User{}, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return User{}, &NotFoundError{Kind: "user", Name: username}
	}
	if resp.StatusCode != http.StatusOK {
		return User{}, &APIError{StatusCode: resp.StatusCode, Message: "user lookup failed"}
	}

	payload, err := parsePayload(resp.Body)
	if err != nil {
		return User{}, err
	}

	user, ok := extractUser(payload)
	if !ok {
		return User{}, &NotFoundError{Kind: "user", Name: username}
	}
	return user, nil
}
