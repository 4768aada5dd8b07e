// internal/domain/models/feedback.go
package models

import "time"

// Category tags a feedback record by the rating band it was submitted from.
type Category string

const (
	CategoryHigh Category = "high-rating" // ratings 4–5
	CategoryLow  Category = "low-rating"  // ratings 1–3
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryHigh || c == CategoryLow
}

// CategoryFor returns the category a rating belongs to. Callers set the
// category at creation time; stores never recompute it.
func CategoryFor(rating int) Category {
	if rating >= 4 {
		return CategoryHigh
	}
	return CategoryLow
}

// Feedback is one submitted rating plus comment.
//
// The JSON shape is also the on-disk layout of the feedback file, so field
// names here are part of the persisted format.
type Feedback struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	Text      string    `json:"feedback"`
	Name      string    `json:"name,omitempty"`
	Category  Category  `json:"type"`
	CreatedAt time.Time `json:"timestamp"`
	SourceIP  string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`

	// InvitedBy holds the user IDs (hex) that flagged this record for an
	// outbound invitation. Only ToggleInvitation mutates it.
	InvitedBy []string `json:"invited_by"`
}

// IsInvited reports whether at least one user flagged the record.
func (f Feedback) IsInvited() bool {
	return len(f.InvitedBy) > 0
}
