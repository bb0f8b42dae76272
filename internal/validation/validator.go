// Package validation provides the per-entity form schemas using the validator/v10 library.
//
// Every failure carries a localized message with a stable code suffix, for
// example "Выберите автора (300)". Free-text fields are rejected when they
// look like script injection and are sanitized once they pass.
package validation

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/vantagepoint/vantage-admin/internal/errors"
	"github.com/vantagepoint/vantage-admin/internal/sanitize"
)

var (
	digitsRe  = regexp.MustCompile(`^[0-9]+$`)
	lettersRe = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё]+$`)
)

// Rule is the message and code reported for one field/tag pair.
type Rule struct {
	Text string
	Code Code
}

// Catalog maps "field.tag" to the rule reported when that tag fails.
type Catalog map[string]Rule

// Form is a schema: a struct with validate tags plus its message catalog.
type Form interface {
	Catalog() Catalog
}

// Sanitizer is implemented by forms whose free-text fields are transformed
// after successful validation.
type Sanitizer interface {
	Sanitize()
}

// Failure is one field that did not pass its schema.
type Failure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

// Errors lists the failures of a form in field declaration order.
// At most one failure is reported per field.
type Errors []Failure

// Error implements the error interface.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failures keyed by field name.
func (e Errors) Fields() domainerrors.FieldErrors {
	fields := make(domainerrors.FieldErrors, len(e))
	for _, f := range e {
		fields[f.Field] = f.Message
	}
	return fields
}

// Field returns the failure for name, if any.
func (e Errors) Field(name string) (Failure, bool) {
	for _, f := range e {
		if f.Field == name {
			return f, true
		}
	}
	return Failure{}, false
}

// fallbackRule is used for tags missing from a catalog.
var fallbackRule = Rule{Text: "Некорректное значение", Code: CodeInvalidFormat}

// Validator wraps go-playground/validator with schema-aware messages.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the custom tags used by the schemas:
// digits, letters (Latin or Cyrillic), safe (no suspicious content)
// and httpurl (absolute http or https URL).
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		return name
	})

	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "letters", func(fl validator.FieldLevel) bool {
		return lettersRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "safe", func(fl validator.FieldLevel) bool {
		return !sanitize.HasSuspiciousContent(fl.Field().String())
	})
	mustRegister(v, "httpurl", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	})

	v.RegisterStructValidation(menuItemStructLevel, MenuItemForm{})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}

// Validate checks form against its schema and returns Errors on failure.
// The form is not modified.
func (v *Validator) Validate(form Form) error {
	if err := v.v.Struct(form); err != nil {
		return v.formatError(form.Catalog(), err)
	}
	return nil
}

// Parse validates form and, when it passes, applies the sanitizing
// transforms so the stored value is always clean. form must be a pointer
// for the transforms to take effect.
func (v *Validator) Parse(form Form) error {
	if err := v.Validate(form); err != nil {
		return err
	}
	if s, ok := form.(Sanitizer); ok {
		s.Sanitize()
	}
	return nil
}

// formatError converts validator errors to coded failures.
func (v *Validator) formatError(catalog Catalog, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	failures := make(Errors, 0, len(validationErrs))
	seen := make(map[string]bool, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Field()
		if seen[field] {
			continue
		}
		seen[field] = true

		rule, ok := catalog[field+"."+e.Tag()]
		if !ok {
			rule = fallbackRule
		}
		failures = append(failures, Failure{
			Field:   field,
			Message: Message(rule.Text, rule.Code),
			Code:    rule.Code,
		})
	}
	return failures
}
