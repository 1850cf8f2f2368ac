package kiosk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the kiosk server, carrying the
// server-provided message verbatim so callers can surface it unchanged.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// IsMaintenance reports whether err is the server's maintenance-mode
// rejection (503). Rentals are suspended while returns still work, so this
// failure is surfaced distinctly and implies the client's status view is
// stale.
func IsMaintenance(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable
}

// IsUnauthorized reports whether err is an authentication rejection (401),
// e.g. an expired admin token or a wrong QA password.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Message returns the server-provided message for an APIError, or the plain
// error text for anything else.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// decodeAPIError drains an error response body into an APIError. The server
// reports failures as {"message": "..."}; anything else degrades to the
// bare status code.
func decodeAPIError(body io.Reader, path string, statusCode int) error {
	apiErr := &APIError{StatusCode: statusCode, Path: path}
	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err == nil && len(raw) > 0 {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Message
		}
	}
	return apiErr
}
