package driven

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport wraps failures where no HTTP response was received
// (DNS, connection refused, timeout, cancelled context).
var ErrTransport = errors.New("transport failure")

// ErrMalformedResponse is returned when a 2xx body is not valid JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// StatusError is returned when an upstream answers with a non-2xx status.
// Body holds the raw response text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("http %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// StatusCodeOf returns the HTTP status carried by err, or 0 when err holds
// no StatusError.
func StatusCodeOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
