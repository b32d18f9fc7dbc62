package bgg

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyUsername is returned before any network call when a username is
// empty or whitespace-only.
var ErrEmptyUsername = errors.New("username must not be empty")

// NotFoundError reports an entity that genuinely does not exist upstream.
// It is terminal; retrying cannot help.
type NotFoundError struct {
	Kind string // "user", "game", ...
	Name string
	ID   int
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s with ID %d not found", e.Kind, e.ID)
}

// ProcessingError reports that BGG is still computing the response after
// the retry ceiling was reached. The caller should try again after
// SuggestedBackoff.
type ProcessingError struct {
	Attempts         int
	SuggestedBackoff time.Duration
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("collection still processing after %d attempts, retry in %s", e.Attempts, e.SuggestedBackoff)
}

// Retryable marks the error as transient.
func (e *ProcessingError) Retryable() bool { return true }

// NetworkError reports a transport-level or server-side failure.
// Permanent is set for failures that repeated attempts cannot fix, such as
// DNS resolution errors.
type NetworkError struct {
	Message    string
	StatusCode int
	Permanent  bool
	Cause      error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// Retryable reports whether another attempt could succeed.
func (e *NetworkError) Retryable() bool { return !e.Permanent }

// APIError reports a client-side rejection (4xx other than 404) from the
// API. It is not retryable.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("BGG API rejected the request (HTTP %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRetryable reports whether the caller may usefully retry the operation
// later. Not-found, API rejections and permanent network failures are
// terminal; everything else transient-looking is retryable.
func IsRetryable(err error) bool {
	type retryable interface{ Retryable() bool }
	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// SuggestedBackoff returns the backoff hint carried by a ProcessingError,
// or zero when the error carries none.
func SuggestedBackoff(err error) time.Duration {
	var p *ProcessingError
	if errors.As(err, &p) {
		return p.SuggestedBackoff
	}
	return 0
}
