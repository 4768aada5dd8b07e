package feedbackstore

import (
	"context"

	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.uber.org/zap"
)

// FallbackStore tries primary first and, on any error, logs it and runs the
// same call against secondary.
//
// It does not mirror writes: a record created in primary is never copied to
// secondary, and a record created in secondary during an outage stays there.
// The two backends drift apart; callers must not expect
// read-your-writes across a fallback.
type FallbackStore struct {
	primary   Store
	secondary Store
	log       *zap.Logger
}

// NewFallbackStore wraps primary with secondary as the degraded path.
func NewFallbackStore(primary, secondary Store, logger *zap.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, secondary: secondary, log: logger}
}

func (s *FallbackStore) Mode() string {
	return s.primary.Mode() + "+" + s.secondary.Mode()
}

// try runs call on primary, then on secondary if primary failed.
func try[T any](s *FallbackStore, op string, call func(Store) (T, error)) (T, error) {
	v, err := call(s.primary)
	if err == nil {
		return v, nil
	}
	s.log.Warn("feedback primary store failed; using fallback",
		zap.String("op", op),
		zap.String("primary", s.primary.Mode()),
		zap.String("fallback", s.secondary.Mode()),
		zap.Error(err))
	return call(s.secondary)
}

func (s *FallbackStore) Create(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	return try(s, "create", func(st Store) (models.Feedback, error) { return st.Create(ctx, f) })
}

func (s *FallbackStore) List(ctx context.Context, q ListQuery) (Page, error) {
	return try(s, "list", func(st Store) (Page, error) { return st.List(ctx, q) })
}

func (s *FallbackStore) ListByEmail(ctx context.Context, email string) ([]models.Feedback, error) {
	return try(s, "list_by_email", func(st Store) ([]models.Feedback, error) { return st.ListByEmail(ctx, email) })
}

func (s *FallbackStore) Export(ctx context.Context, category models.Category, limit int) ([]models.Feedback, error) {
	return try(s, "export", func(st Store) ([]models.Feedback, error) { return st.Export(ctx, category, limit) })
}

func (s *FallbackStore) Stats(ctx context.Context) (Stats, error) {
	return try(s, "stats", func(st Store) (Stats, error) { return st.Stats(ctx) })
}

func (s *FallbackStore) Delete(ctx context.Context, id string) (bool, error) {
	return try(s, "delete", func(st Store) (bool, error) { return st.Delete(ctx, id) })
}

func (s *FallbackStore) DeleteMany(ctx context.Context, ids []string) (int, error) {
	return try(s, "delete_many", func(st Store) (int, error) { return st.DeleteMany(ctx, ids) })
}

func (s *FallbackStore) ToggleInvitation(ctx context.Context, id, userID string) (bool, error) {
	return try(s, "toggle_invitation", func(st Store) (bool, error) { return st.ToggleInvitation(ctx, id, userID) })
}

func (s *FallbackStore) InvitationStats(ctx context.Context) (InvitationStats, error) {
	return try(s, "invitation_stats", func(st Store) (InvitationStats, error) { return st.InvitationStats(ctx) })
}

func (s *FallbackStore) Clear(ctx context.Context) error {
	_, err := try(s, "clear", func(st Store) (struct{}, error) { return struct{}{}, st.Clear(ctx) })
	return err
}
