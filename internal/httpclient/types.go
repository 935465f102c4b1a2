package httpclient

import (
	"errors"
	"fmt"
)

// maxErrorBody caps how much of a failed response is kept on an HTTPError
const maxErrorBody = 512

// HTTPError is a response with an unexpected status code
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string

	// Body is the start of the response body, usually the remote's error message
	Body string
}

// Error returns the error message
func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d for %s %s", e.StatusCode, e.Method, e.URL)
	}
	return fmt.Sprintf("HTTP %d for %s %s: %s", e.StatusCode, e.Method, e.URL, e.Body)
}

// NewHTTPError creates a new HTTP error, truncating body
func NewHTTPError(statusCode int, method, url string, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &HTTPError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Body:       string(body),
	}
}

// StatusCode returns the status of an HTTPError in err's chain, or 0
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
