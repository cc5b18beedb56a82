package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrTransport    = errors.New("api unreachable")
	ErrUnauthorized = errors.New("not authorized")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx answer from the inventory API. Message is the
// server-provided text (the "message" field, or the joined "errors" list).
type APIError struct {
	Status  int
	Message string
	Fields  []string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// ServerMessage returns the message the server sent along with err, or
// fallback when err carries none.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type fieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
	Path  string `json:"path,omitempty"`
}

type errorBody struct {
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors"`
}

func (b errorBody) toAPIError(status int) *APIError {
	apiErr := &APIError{Status: status, Message: b.Message}
	if len(b.Errors) == 0 {
		return apiErr
	}
	for _, fe := range b.Errors {
		if fe.Msg != "" {
			apiErr.Fields = append(apiErr.Fields, fe.Msg)
		}
	}
	apiErr.Message = strings.Join(apiErr.Fields, ", ")
	return apiErr
}
