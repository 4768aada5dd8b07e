// Package htmlsanitize strips markup from user-submitted text.
//
// Feedback comments and display names are plain text. Anything that looks
// like HTML is removed before storage so the dashboard can render values
// without trusting the submitter.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is safe for concurrent use once built.
var policy = bluemonday.StrictPolicy()

// PlainText removes all tags (and the content of script/style elements) and
// returns the remaining text unescaped and trimmed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
