package bgg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	meepleerrors "github.com/lepinkainen/meeple/internal/errors"
	"github.com/lepinkainen/meeple/internal/xmljson"
)

// response is the raw outcome of one resolved fetch. 4xx responses resolve
// here too, so callers can tell a permanent rejection from "keep trying".
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// fetchWithRetry issues a GET and retries through BGG's asynchronous
// 202 "still processing" responses and transient failures.
//
// 200 resolves immediately. 202, 5xx and network errors retry with an
// unjittered exponential backoff (initial retryDelay, doubling, no cap)
// until the attempt ceiling, then fail. 4xx responses resolve as-is
// without retrying. Permanent network failures such as DNS errors fail
// immediately; retrying them only compounds the delay.
func (c *Client) fetchWithRetry(ctx context.Context, fetchURL string) (*response, error) {
	delay := c.retryDelay
	var lastErr error

	for attempt := 1; ; attempt++ {
		resp, err := c.doRequest(ctx, fetchURL)
		switch {
		case err != nil:
			var netErr *NetworkError
			if errors.As(err, &netErr) && netErr.Permanent {
				return nil, err
			}
			lastErr = err
		case resp.StatusCode == http.StatusOK:
			return resp, nil
		case resp.StatusCode == http.StatusAccepted:
			lastErr = &ProcessingError{Attempts: attempt, SuggestedBackoff: delay}
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, rateLimitedError(resp)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return resp, nil
		default:
			lastErr = &NetworkError{
				Message:    fmt.Sprintf("BGG returned status %d", resp.StatusCode),
				StatusCode: resp.StatusCode,
			}
		}

		if attempt >= c.retryAttempts {
			if p, ok := lastErr.(*ProcessingError); ok {
				p.Attempts = attempt
				p.SuggestedBackoff = delay
			}
			return nil, lastErr
		}

		slog.Debug("Retrying BGG request", "url", fetchURL, "attempt", attempt, "backoff", delay, "reason", lastErr)
		c.sleep(delay)
		delay *= 2
	}
}

// doRequest performs a single HTTP GET against the API.
func (c *Client) doRequest(ctx context.Context, fetchURL string) (*response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Message: "rate limit wait failed", Permanent: true, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, &NetworkError{Message: "failed to create request", Permanent: true, Cause: err}
	}
	req.Header.Set("Accept", "application/xml")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{
			Message:   "request failed",
			Permanent: isPermanentNetworkError(err),
			Cause:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Message: "failed to read response body", StatusCode: resp.StatusCode, Cause: err}
	}

	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// isPermanentNetworkError reports failures that further attempts cannot
// fix. DNS resolution failures are the common case; a context cancellation
// is also final from the caller's point of view.
func isPermanentNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsTemporary
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Timeouts and connection-level failures are worth another try.
		return false
	}
	return false
}

func rateLimitedError(resp *response) error {
	message := "BGG rate limit reached; try again in a few minutes"
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
			return meepleerrors.NewRateLimitErrorWithRetry(message, time.Duration(seconds)*time.Second)
		}
	}
	return meepleerrors.NewRateLimitError(message)
}

// parsePayload converts a response body into the generic tree. The
// resulting ParseError is the one expected-path exception in the whole
// client: it signals an upstream contract violation, not a user mistake.
func parsePayload(body []byte) (xmljson.Value, error) {
	return xmljson.ParseBytes(body)
}

// endpointURL builds the request URL for an endpoint path and query.
func (c *Client) endpointURL(path string, query url.Values) string {
	if len(query) == 0 {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + query.Encode()
}
