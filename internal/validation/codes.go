package validation

import (
	"fmt"
	"regexp"
)

// Code is a stable numeric-string identifier appended to every schema message
// as " (NNN)". Consumers match on the code, never on the localized text.
type Code string

// Codes are partitioned by category: generic 0xx, length/range 1xx,
// format 2xx, selection 3xx.
const (
	CodeRequired          Code = "001"
	CodeSuspiciousContent Code = "002"
	CodeInvalidFormat     Code = "003"

	CodeTooShort   Code = "100"
	CodeTooLong    Code = "101"
	CodeOutOfRange Code = "102"

	CodeInvalidEmail   Code = "200"
	CodeInvalidURL     Code = "201"
	CodeInvalidPattern Code = "202"
	CodeDigitsOnly     Code = "203"
	CodeLettersOnly    Code = "204"

	CodeNoSelection      Code = "300"
	CodeInvalidSelection Code = "301"
	CodeMinSelection     Code = "302"
)

// Category groups codes by their leading digit.
type Category string

// Code categories.
const (
	CategoryGeneric   Category = "generic"
	CategoryLength    Category = "length"
	CategoryFormat    Category = "format"
	CategorySelection Category = "selection"
	CategoryUnknown   Category = "unknown"
)

// Category returns the category the code belongs to.
func (c Code) Category() Category {
	if len(c) != 3 {
		return CategoryUnknown
	}
	switch c[0] {
	case '0':
		return CategoryGeneric
	case '1':
		return CategoryLength
	case '2':
		return CategoryFormat
	case '3':
		return CategorySelection
	default:
		return CategoryUnknown
	}
}

// Message formats text with its code suffix: "text (NNN)".
func Message(text string, code Code) string {
	return fmt.Sprintf("%s (%s)", text, code)
}

var codeSuffixRe = regexp.MustCompile(` \((\d{3})\)$`)

// ParseCode extracts the code suffix from a formatted message.
func ParseCode(msg string) (Code, bool) {
	m := codeSuffixRe.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	return Code(m[1]), true
}
