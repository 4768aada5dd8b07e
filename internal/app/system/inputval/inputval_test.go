package inputval_test

import (
	"testing"

	"github.com/dalemusser/ratingdesk/internal/app/system/inputval"
	"github.com/dalemusser/ratingdesk/internal/app/system/normalize"
	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail_Accepts(t *testing.T) {
	for _, email := range []string{
		"reviewer@example.com",
		"first.last@shop.example.co.uk",
		"buyer+ratings@example.com",
		"ops@localhost",
		"x@y.io",
	} {
		assert.True(t, inputval.IsValidEmail(email), email)
	}
}

func TestIsValidEmail_Rejects(t *testing.T) {
	tests := []struct {
		name, email string
	}{
		{"empty", ""},
		{"no at sign", "reviewer.example.com"},
		{"nothing before at", "@example.com"},
		{"nothing after at", "reviewer@"},
		{"two at signs", "a@b@c.com"},
		{"at sign in local part", "first@last@example.com"},
		{"angle brackets", "Reviewer <reviewer@example.com>"},
		{"lone angle bracket", "reviewer>@example.com"},
		{"html in local part", "<b>x</b>@example.com"},
		{"inner space", "review er@example.com"},
		{"tab", "reviewer@exa\tmple.com"},
		{"newline", "reviewer@example.com\nBcc: x@example.com"},
		{"carriage return", "reviewer\r@example.com"},
		{"leading dot", ".reviewer@example.com"},
		{"trailing dot in domain", "reviewer@example.com."},
		{"double dot", "reviewer@example..com"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, inputval.IsValidEmail(tc.email), "%q", tc.email)
		})
	}
}

// Handlers normalize before validating, so padded and mixed-case input is
// accepted while inner whitespace still fails.
func TestIsValidEmail_AfterNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"  Reviewer@Example.COM ", true},
		{"\tops@localhost\n", true},
		{"   ", false},
		{" a@b @c.com ", false},
		{" A@B@C.COM", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, inputval.IsValidEmail(normalize.Email(tc.raw)), "%q", tc.raw)
	}
}
