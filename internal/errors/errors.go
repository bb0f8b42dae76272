// Package errors provides the domain error shared by every mutation in the admin console.
//
// A failed server call is normalized exactly once into a DomainError and then
// routed by kind:
//
//	switch derr := errors.Normalize(err); derr.Kind {
//	case errors.KindValidation:
//	    // show derr.Fields next to the matching inputs
//	case errors.KindForm:
//	    // show derr.Message as a banner
//	default:
//	    // show the generic fallback message
//	}
//
// Local schema failures never pass through here; see package validation.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Kind tags the variant of a DomainError.
type Kind string

// Error kinds.
const (
	KindValidation Kind = "validation"
	KindForm       Kind = "form"
	KindUnknown    Kind = "unknown"
)

// FallbackMessage is carried by every unknown-kind error.
const FallbackMessage = "Unexpected error"

// FieldErrors maps a form field name to the message shown beside it.
type FieldErrors map[string]string

// Names returns the field names in sorted order.
func (f FieldErrors) Names() []string {
	return slices.Sorted(maps.Keys(f))
}

// DomainError is the tagged union produced for a failed mutation.
// Fields is set only for KindValidation; Message only for the other kinds.
type DomainError struct {
	Kind    Kind        `json:"kind"`
	Fields  FieldErrors `json:"fields,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Kind != KindValidation {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if len(e.Fields) == 0 {
		return "validation: no field details"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.Fields.Names() {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Is matches another *DomainError of the same kind.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinel errors for use with errors.Is().
var (
	ErrValidation = &DomainError{Kind: KindValidation}
	ErrForm       = &DomainError{Kind: KindForm}
	ErrUnknown    = &DomainError{Kind: KindUnknown}
)

// Validation creates a validation error. A nil map is stored as an empty one.
func Validation(fields FieldErrors) *DomainError {
	if fields == nil {
		fields = FieldErrors{}
	}
	return &DomainError{Kind: KindValidation, Fields: fields}
}

// Form creates a form-level error carrying a backend message verbatim.
func Form(msg string) *DomainError {
	return &DomainError{Kind: KindForm, Message: msg}
}

// Unknown creates the fallback error.
func Unknown() *DomainError {
	return &DomainError{Kind: KindUnknown, Message: FallbackMessage}
}

// ResponseError is implemented by errors that carry a decoded HTTP response.
// Data holds the decoded JSON body: []any, map[string]any, a scalar, or nil.
type ResponseError interface {
	error
	StatusCode() int
	ResponseData() any
}

// Normalize maps any error returned by the API layer to a DomainError.
// Transport failures and anything that does not carry a response become unknown.
func Normalize(err error) *DomainError {
	if err == nil {
		return Unknown()
	}

	var derr *DomainError
	if errors.As(err, &derr) {
		return derr
	}

	var respErr ResponseError
	if !errors.As(err, &respErr) {
		return Unknown()
	}
	return NormalizeResponse(respErr.StatusCode(), respErr.ResponseData())
}

// NormalizeResponse classifies a raw status and decoded body.
//
//   - a list body of {field, message} objects is a validation error; entries
//     missing a non-empty field or message are dropped, and an empty result is
//     still a validation error;
//   - a 400 whose body has a non-empty string "message" is a form error;
//   - anything else is unknown.
func NormalizeResponse(status int, data any) *DomainError {
	if items, ok := data.([]any); ok {
		fields := FieldErrors{}
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			field, _ := obj["field"].(string)
			msg, _ := obj["message"].(string)
			if field != "" && msg != "" {
				fields[field] = msg
			}
		}
		return Validation(fields)
	}

	if status == http.StatusBadRequest {
		if obj, ok := data.(map[string]any); ok {
			if msg, ok := obj["message"].(string); ok && msg != "" {
				return Form(msg)
			}
		}
	}

	return Unknown()
}
