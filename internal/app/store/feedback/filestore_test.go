package feedbackstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dalemusser/ratingdesk/internal/app/system/jsonfile"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"github.com/dalemusser/ratingdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestFileStore returns a FileStore in a temp dir whose clock advances
// one second per call, so newest-first ordering is deterministic.
func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "feedback.json")
	s := NewFileStore(jsonfile.New(path), 10, 100, zap.NewNop())

	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestFileStore_CreateThenList(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	in := testutil.Feedback("ann@example.com", 5)
	created, err := s.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NotNil(t, created.InvitedBy)

	_, err = s.Create(ctx, testutil.Feedback("bob@example.com", 2))
	require.NoError(t, err)

	page, err := s.List(ctx, ListQuery{Category: models.CategoryHigh})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	got := page.Items[0]
	assert.Equal(t, in.Email, got.Email)
	assert.Equal(t, in.Rating, got.Rating)
	assert.Equal(t, in.Text, got.Text)
	assert.Equal(t, created.ID, got.ID)
}

func TestFileStore_ListNewestFirst(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	first, _ := s.Create(ctx, testutil.Feedback("a@example.com", 4))
	second, _ := s.Create(ctx, testutil.Feedback("b@example.com", 4))

	page, err := s.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.Equal(t, first.ID, page.Items[1].ID)
}

func TestFileStore_Pagination(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := s.Create(ctx, testutil.Feedback("p@example.com", 3))
		require.NoError(t, err)
	}

	page, err := s.List(ctx, ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 23, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 10)

	page, err = s.List(ctx, ListQuery{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	page, err = s.List(ctx, ListQuery{Page: 4, PageSize: 10})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Len(t, page.Items, 0)
	assert.Equal(t, 4, page.Page)
}

func TestFileStore_EmptyListHasZeroPages(t *testing.T) {
	s := newTestFileStore(t)

	page, err := s.List(context.Background(), ListQuery{Category: models.CategoryLow})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Items)
	assert.Len(t, page.Items, 0)
}

func TestFileStore_ListByEmail(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	_, _ = s.Create(ctx, testutil.Feedback("x@example.com", 5))
	_, _ = s.Create(ctx, testutil.Feedback("y@example.com", 1))
	last, _ := s.Create(ctx, testutil.Feedback("x@example.com", 2))

	rows, err := s.ListByEmail(ctx, "x@example.com")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, last.ID, rows[0].ID)
}

func TestFileStore_Export(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		_, err := s.Create(ctx, testutil.Feedback("e@example.com", 1+i%5))
		require.NoError(t, err)
	}

	rows, err := s.Export(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, rows, 120, "export is not bound by the page size cap")
	assert.True(t, rows[0].CreatedAt.After(rows[119].CreatedAt))

	rows, err = s.Export(ctx, models.CategoryHigh, 5)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for _, f := range rows {
		assert.Equal(t, models.CategoryHigh, f.Category)
	}
}

func TestFileStore_Stats(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	for _, r := range []int{5, 4, 4} {
		_, err := s.Create(ctx, testutil.Feedback("h@example.com", r))
		require.NoError(t, err)
	}

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)

	high, ok := stats.ByCategory[models.CategoryHigh]
	require.True(t, ok)
	assert.Equal(t, 3, high.Count)
	assert.Equal(t, 4.3, high.AvgRating)

	_, ok = stats.ByCategory[models.CategoryLow]
	assert.False(t, ok, "categories without records are absent")
}

func TestFileStore_Delete(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	f, _ := s.Create(ctx, testutil.Feedback("d@example.com", 1))

	ok, err := s.Delete(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(ctx, f.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_DeleteMany(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, testutil.Feedback("a@example.com", 1))
	b, _ := s.Create(ctx, testutil.Feedback("b@example.com", 2))
	keep, _ := s.Create(ctx, testutil.Feedback("c@example.com", 3))

	n, err := s.DeleteMany(ctx, []string{a.ID, b.ID, "000000000000000000000000"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, _ := s.List(ctx, ListQuery{})
	require.Len(t, page.Items, 1)
	assert.Equal(t, keep.ID, page.Items[0].ID)
}

func TestFileStore_ToggleInvitation(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	f, _ := s.Create(ctx, testutil.Feedback("t@example.com", 5))

	ok, err := s.ToggleInvitation(ctx, f.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	inv, _ := s.InvitationStats(ctx)
	assert.Equal(t, InvitationStats{Invited: 1, NotInvited: 0, Total: 1, RatioPercent: 100}, inv)

	ok, err = s.ToggleInvitation(ctx, f.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	rows, _ := s.ListByEmail(ctx, "t@example.com")
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].InvitedBy)

	ok, err = s.ToggleInvitation(ctx, "missing", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_InvitationStatsRatio(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, testutil.Feedback("a@example.com", 5))
	_, _ = s.Create(ctx, testutil.Feedback("b@example.com", 5))
	_, _ = s.Create(ctx, testutil.Feedback("c@example.com", 5))
	_, _ = s.ToggleInvitation(ctx, a.ID, "u")

	inv, err := s.InvitationStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Invited)
	assert.Equal(t, 2, inv.NotInvited)
	assert.Equal(t, 33.3, inv.RatioPercent)
}

func TestFileStore_CorruptFileReadsAsEmpty(t *testing.T) {
	s := newTestFileStore(t)
	path := s.file.Path()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	page, err := s.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestFileStore_WriteFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the data directory should be makes MkdirAll fail.
	blocker := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewFileStore(jsonfile.New(filepath.Join(blocker, "feedback.json")), 10, 100, zap.NewNop())
	_, err := s.Create(context.Background(), testutil.Feedback("w@example.com", 4))
	assert.Error(t, err)
}

func TestFileStore_Clear(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	_, _ = s.Create(ctx, testutil.Feedback("a@example.com", 5))
	require.NoError(t, s.Clear(ctx))

	page, _ := s.List(ctx, ListQuery{})
	assert.Equal(t, 0, page.Total)
}
