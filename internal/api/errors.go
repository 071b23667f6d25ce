package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a server-reported failure: any response with a non-2xx status.
// Message carries the human-readable text extracted from the response body.
type Error struct {
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// errorBody is the shape the backend uses for failures. Some endpoints report
// under "error", others under "message".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// newError builds an *Error from a response body, falling back to the HTTP
// status text when the body carries no usable message.
func newError(status int, body []byte, requestID string) *Error {
	msg := http.StatusText(status)
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Error != "":
			msg = eb.Error
		case eb.Message != "":
			msg = eb.Message
		}
	}
	return &Error{Status: status, Message: msg, RequestID: requestID}
}

// IsUnauthorized reports whether err is a server-reported 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a server-reported 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// MessageOr returns the server-reported message from err, or fallback when
// err carries none (transport failures, cancelled contexts).
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
