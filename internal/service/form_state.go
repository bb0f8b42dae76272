package service

import (
	"errors"

	"github.com/vantagepoint/vantage-admin/internal/client"
	domainerrors "github.com/vantagepoint/vantage-admin/internal/errors"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// FieldError is the message shown next to one form input. Code is set for
// local schema failures only.
type FieldError struct {
	Message string          `json:"message"`
	Code    validation.Code `json:"code,omitempty"`
}

// FormState is what a form shows after a failed submit: per-field messages,
// a banner, or both empty when the submit succeeded.
type FormState struct {
	Fields  map[string]FieldError `json:"fields,omitempty"`
	Banner  string                `json:"banner,omitempty"`
	Expired bool                  `json:"expired,omitempty"`
}

// StateFromError builds the form state for err, which is whatever a service
// returned from a submit. A nil err yields the empty state.
func StateFromError(err error) FormState {
	if err == nil {
		return FormState{}
	}

	var local validation.Errors
	if errors.As(err, &local) {
		fields := make(map[string]FieldError, len(local))
		for _, f := range local {
			fields[f.Field] = FieldError{Message: f.Message, Code: f.Code}
		}
		return FormState{Fields: fields}
	}

	if errors.Is(err, client.ErrSessionExpired) {
		return FormState{Expired: true}
	}

	derr := domainerrors.Normalize(err)
	switch derr.Kind {
	case domainerrors.KindValidation:
		fields := make(map[string]FieldError, len(derr.Fields))
		for name, msg := range derr.Fields {
			fields[name] = FieldError{Message: msg}
		}
		return FormState{Fields: fields}
	default:
		return FormState{Banner: derr.Message}
	}
}

// OK reports whether the state carries no error at all.
func (s FormState) OK() bool {
	return len(s.Fields) == 0 && s.Banner == "" && !s.Expired
}

// Field returns the error shown next to name.
func (s FormState) Field(name string) (FieldError, bool) {
	fe, ok := s.Fields[name]
	return fe, ok
}
