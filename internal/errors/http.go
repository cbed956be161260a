// Package errors provides error helpers for upstream HTTP calls.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBodyBytes caps how much of an upstream error body is kept for logs.
const maxErrorBodyBytes = 4 << 10

// HTTPError is a non-2xx upstream response. Message is the upstream's own
// error text when it sent a JSON error object, else the raw body.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return "upstream returned " + e.Status
	}
	return fmt.Sprintf("upstream returned %s: %s", e.Status, e.Message)
}

// CheckSuccess returns nil for a 2xx response and an *HTTPError otherwise,
// including for redirects the client did not follow. The body is consumed
// only on failure.
func CheckSuccess(resp *http.Response) error {
	if resp.StatusCode/100 == 2 {
		return nil
	}

	e := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	if e.Status == "" {
		e.Status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		e.Message = "unreadable body: " + err.Error()
		return e
	}
	e.Body = string(raw)
	e.Message = upstreamMessage(raw)
	return e
}

// upstreamMessage prefers {"error": ...} then {"message": ...} over the raw body.
func upstreamMessage(raw []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

// GetHTTPStatusCode extracts the upstream status code from err, if any.
func GetHTTPStatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
