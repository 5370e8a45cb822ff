package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the API. Message holds the
// human-readable text extracted from the conventional error-body shape
// {"error":{"message":...}} and is empty when the body was absent or
// malformed.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf(
		"unexpected status %d on %s %s", e.StatusCode, e.Method, e.Path,
	)
}

// Unauthorized reports whether the error is a 401 response, meaning the
// session is missing or expired.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// errorEnvelope is the conventional error-body shape returned by the API.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// decodeAPIError builds an *APIError from a failed response body.
func decodeAPIError(status int, method, path string, body []byte) error {
	apiErr := &APIError{StatusCode: status, Method: method, Path: path}

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil {
		apiErr.Message = strings.TrimSpace(env.Error.Message)
	}

	return apiErr
}

// ErrorMessage extracts a human-readable message from err for inline
// display. It prefers the message carried by an *APIError in the chain
// and falls back to the caller-supplied generic message when the error
// carried none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsUnauthorized reports whether err (or any error in its chain) is a
// 401 API response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
