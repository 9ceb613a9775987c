package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfig          = errors.New("config error")
	ErrFeedUnavailable = errors.New("feed unavailable")
	ErrFeedFormat      = errors.New("feed format error")
	ErrSchema          = errors.New("schema error")
	ErrRecordSkipped   = errors.New("record skipped")
	ErrPartialSync     = errors.New("some records failed to sync")
)

// APIError is a non-2xx answer from the destination API. Bodies are kept verbatim
// so operators can see what was sent and what came back.
type APIError struct {
	Method       string
	URL          string
	StatusCode   int
	Code         string
	Message      string
	RequestBody  []byte
	ResponseBody []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("destination api %s %s: status %d (%s): %s", e.Method, e.URL, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("destination api %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, string(e.ResponseBody))
}

// Retryable reports whether the same request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
