package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const invalidJSONMessage = "invalid JSON response"

// APIError is the single error shape returned by HTTPClient. StatusCode 0
// means the request never produced an HTTP response.
type APIError struct {
	Message    string
	StatusCode int
	// Detail is the decoded error body, empty when the body was not JSON.
	Detail json.RawMessage

	cause error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return "api: " + e.Message
	}
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match ErrUnavailable, ErrUnauthorized and ErrNotFound.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.StatusCode == 0
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Unwrap exposes the transport error, e.g. context.Canceled.
func (e *APIError) Unwrap() error {
	return e.cause
}

func transportError(err error) *APIError {
	return &APIError{Message: err.Error(), cause: err}
}

// httpError builds the error for a non-2xx response. The message is taken
// from the first non-empty "message", "error" or "detail" string field.
func httpError(status int, body []byte) *APIError {
	e := &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("HTTP error %d", status),
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return e
	}
	e.Detail = json.RawMessage(trimmed)

	var fields map[string]any
	if err := json.Unmarshal(e.Detail, &fields); err != nil {
		return e
	}
	for _, key := range []string{"message", "error", "detail"} {
		if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
			e.Message = s
			break
		}
	}
	return e
}
