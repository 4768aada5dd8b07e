// Package normalize cleans user-supplied strings before they are stored or
// compared.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace, collapses inner runs of spaces and
// puts the result in Unicode NFC form.
func Name(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
