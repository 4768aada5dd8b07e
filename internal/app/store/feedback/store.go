// Package feedbackstore persists feedback records behind one contract with
// two backends: a single JSON file and a MongoDB collection. In mongo mode
// every call goes to MongoDB first and is retried against the file when it
// fails (see FallbackStore).
package feedbackstore

import (
	"context"
	"math"

	"github.com/dalemusser/ratingdesk/internal/domain/models"
)

// Store is the storage-agnostic feedback contract.
type Store interface {
	// Create assigns ID and CreatedAt, persists the record and returns it.
	Create(ctx context.Context, f models.Feedback) (models.Feedback, error)
	// List returns one page of records, newest first, optionally filtered
	// by exact category.
	List(ctx context.Context, q ListQuery) (Page, error)
	// ListByEmail returns every record for an email, newest first. It is
	// deliberately unpaginated.
	ListByEmail(ctx context.Context, email string) ([]models.Feedback, error)
	// Export returns up to limit records, newest first, optionally filtered
	// by exact category, in a single read. A limit below 1 means no cap.
	Export(ctx context.Context, category models.Category, limit int) ([]models.Feedback, error)
	Stats(ctx context.Context) (Stats, error)
	// Delete reports whether a record with id existed and was removed.
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteMany removes the records that exist and returns how many were
	// removed. Unknown ids are skipped.
	DeleteMany(ctx context.Context, ids []string) (int, error)
	// ToggleInvitation adds userID to the record's InvitedBy set, or
	// removes it if present. It returns false when the record is missing.
	ToggleInvitation(ctx context.Context, id, userID string) (bool, error)
	InvitationStats(ctx context.Context) (InvitationStats, error)
	// Clear removes every record.
	Clear(ctx context.Context) error
	// Mode names the backend ("file", "mongo", or "mongo+file").
	Mode() string
}

// ListQuery selects a page of feedback. Zero Page/PageSize are replaced by
// the store defaults; an empty Category means all categories.
type ListQuery struct {
	Page     int
	PageSize int
	Category models.Category
}

// Page is one window of a newest-first listing.
type Page struct {
	Items      []models.Feedback `json:"feedback"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// CategoryStats summarizes one category.
type CategoryStats struct {
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

// Stats summarizes all feedback. Categories without records are absent
// from ByCategory.
type Stats struct {
	Total      int                               `json:"total"`
	ByCategory map[models.Category]CategoryStats `json:"byType"`
}

// InvitationStats counts records flagged for invitation.
type InvitationStats struct {
	Invited      int     `json:"invited"`
	NotInvited   int     `json:"notInvited"`
	Total        int     `json:"total"`
	RatioPercent float64 `json:"ratioPercent"`
}

func newInvitationStats(invited, total int) InvitationStats {
	s := InvitationStats{Invited: invited, NotInvited: total - invited, Total: total}
	if total > 0 {
		s.RatioPercent = round1(float64(invited) * 100 / float64(total))
	}
	return s
}

// round1 rounds to one decimal place, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
