package client

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for API operations.
var (
	ErrNoRefreshToken = errors.New("api: no refresh token")
	ErrRefreshFailed  = errors.New("api: token refresh failed")
	ErrSessionExpired = errors.New("api: session expired")
)

// validationMessage replaces the message of a 422 field-list response.
const validationMessage = "Ошибка валидации данных"

// unknownErrorMessage is shown for errors that carry no message at all.
const unknownErrorMessage = "Произошла неизвестная ошибка"

// FieldError is one entry of a 422 response body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status           int
	Message          string
	Errors           map[string][]string // legacy per-field messages
	ValidationErrors []FieldError
	Data             any // decoded JSON body, nil when the body was not JSON
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status.
func (e *APIError) StatusCode() int { return e.Status }

// ResponseData returns the decoded body.
func (e *APIError) ResponseData() any { return e.Data }

// newAPIError builds an APIError from a raw response body.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fmt.Sprintf("HTTP %d", status),
	}

	var data any
	if len(body) == 0 || json.Unmarshal(body, &data) != nil {
		return apiErr
	}
	apiErr.Data = data

	switch v := data.(type) {
	case []any:
		apiErr.Message = validationMessage
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			field, _ := obj["field"].(string)
			msg, _ := obj["message"].(string)
			apiErr.ValidationErrors = append(apiErr.ValidationErrors, FieldError{Field: field, Message: msg})
		}
	case map[string]any:
		if msg, ok := v["message"].(string); ok && msg != "" {
			apiErr.Message = msg
		}
		if legacy, ok := v["errors"].(map[string]any); ok {
			apiErr.Errors = make(map[string][]string, len(legacy))
			for field, raw := range legacy {
				apiErr.Errors[field] = stringList(raw)
			}
		}
	}

	return apiErr
}

func stringList(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "posts.list", "tags.create", "auth.refresh"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("api %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// ErrorLines flattens err into user-facing lines: the top message, then one
// "field: message" line per 422 entry, then one per legacy field message with
// fields in name order. Errors that are not API errors yield their own text.
func ErrorLines(err error) []string {
	if err == nil {
		return []string{unknownErrorMessage}
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		msg := err.Error()
		if msg == "" {
			msg = unknownErrorMessage
		}
		return []string{msg}
	}

	lines := []string{apiErr.Message}
	for _, fe := range apiErr.ValidationErrors {
		lines = append(lines, fe.Field+": "+fe.Message)
	}

	fields := make([]string, 0, len(apiErr.Errors))
	for field := range apiErr.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, msg := range apiErr.Errors[field] {
			lines = append(lines, field+": "+msg)
		}
	}
	return lines
}
