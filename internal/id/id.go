// Package id generates the prefixed identifiers used for locally created
// records: menu items added before a sync and access token ids.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes in use.
const (
	MenuItem = "mi"
	Token    = "tok"
)

// Generate returns prefix-<21 char nanoid>, e.g. "mi-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + n, nil
}
