package network

import (
	"errors"
	"fmt"
	"strings"
)

// HTTPStatusError is returned when a provider answers with a non-2xx status.
type HTTPStatusError struct {
	Method     string
	URL        string
	StatusCode int
	// Body holds the beginning of the response, which often names the reason
	// (expired token, geo restriction).
	Body string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}

	msg := fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// IsStatus reports whether err carries an HTTPStatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
