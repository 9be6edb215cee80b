package instagram

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound    = errors.New("instagram: profile not found")
	ErrBlocked     = errors.New("instagram: request blocked")
	ErrRateLimited = errors.New("instagram: rate limited")
	ErrNoUser      = errors.New("instagram: no user data")
	ErrNoMetadata  = errors.New("instagram: no profile metadata in page")
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("instagram %s: status %d", e.Op, e.StatusCode)
}

// Unwrap maps well-known statuses to the package sentinels.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrBlocked
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}

// StatusCode extracts the upstream HTTP status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
