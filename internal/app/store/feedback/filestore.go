package feedbackstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/ratingdesk/internal/app/system/jsonfile"
	"github.com/dalemusser/ratingdesk/internal/app/system/paging"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FileStore keeps the whole collection in one JSON array on disk. Every
// operation loads the full array, works on the copy, and rewrites the file.
//
// Read failures (missing or unreadable file) count as an empty collection.
// Write failures are returned. Concurrent writers race: the last rewrite
// wins and an interleaved update can be lost.
type FileStore struct {
	file        *jsonfile.File
	pageSize    int
	maxPageSize int
	log         *zap.Logger
	now         func() time.Time
}

// NewFileStore returns a FileStore backed by file.
func NewFileStore(file *jsonfile.File, pageSize, maxPageSize int, logger *zap.Logger) *FileStore {
	return &FileStore{
		file:        file,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		log:         logger,
		now:         time.Now,
	}
}

func (s *FileStore) Mode() string { return "file" }

func (s *FileStore) load() []models.Feedback {
	var all []models.Feedback
	if err := s.file.Load(&all); err != nil {
		s.log.Warn("feedback file unreadable; treating as empty",
			zap.String("path", s.file.Path()), zap.Error(err))
		return nil
	}
	return all
}

func (s *FileStore) save(all []models.Feedback) error {
	if all == nil {
		all = []models.Feedback{}
	}
	if err := s.file.Save(all); err != nil {
		return fmt.Errorf("save feedback file: %w", err)
	}
	return nil
}

func (s *FileStore) Create(_ context.Context, f models.Feedback) (models.Feedback, error) {
	f.ID = primitive.NewObjectID().Hex()
	f.CreatedAt = s.now().UTC()
	if f.InvitedBy == nil {
		f.InvitedBy = []string{}
	}

	all := s.load()
	all = append(all, f)
	if err := s.save(all); err != nil {
		return models.Feedback{}, err
	}
	return f, nil
}

func (s *FileStore) List(_ context.Context, q ListQuery) (Page, error) {
	p := paging.Params{Page: q.Page, PageSize: q.PageSize}.Normalize(s.pageSize, s.maxPageSize)

	rows := filter(s.load(), func(f models.Feedback) bool {
		return q.Category == "" || f.Category == q.Category
	})
	sortNewestFirst(rows)

	return Page{
		Items:      paging.Window(rows, p),
		Total:      len(rows),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: paging.TotalPages(len(rows), p.PageSize),
	}, nil
}

func (s *FileStore) ListByEmail(_ context.Context, email string) ([]models.Feedback, error) {
	rows := filter(s.load(), func(f models.Feedback) bool { return f.Email == email })
	sortNewestFirst(rows)
	return rows, nil
}

func (s *FileStore) Export(_ context.Context, category models.Category, limit int) ([]models.Feedback, error) {
	rows := filter(s.load(), func(f models.Feedback) bool {
		return category == "" || f.Category == category
	})
	sortNewestFirst(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *FileStore) Stats(_ context.Context) (Stats, error) {
	all := s.load()

	type acc struct{ count, sum int }
	by := map[models.Category]*acc{}
	for _, f := range all {
		a, ok := by[f.Category]
		if !ok {
			a = &acc{}
			by[f.Category] = a
		}
		a.count++
		a.sum += f.Rating
	}

	out := Stats{Total: len(all), ByCategory: make(map[models.Category]CategoryStats, len(by))}
	for c, a := range by {
		out.ByCategory[c] = CategoryStats{
			Count:     a.count,
			AvgRating: round1(float64(a.sum) / float64(a.count)),
		}
	}
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, id string) (bool, error) {
	all := s.load()
	kept := filter(all, func(f models.Feedback) bool { return f.ID != id })
	if len(kept) == len(all) {
		return false, nil
	}
	if err := s.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) DeleteMany(_ context.Context, ids []string) (int, error) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	all := s.load()
	kept := filter(all, func(f models.Feedback) bool {
		_, gone := drop[f.ID]
		return !gone
	})
	removed := len(all) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *FileStore) ToggleInvitation(_ context.Context, id, userID string) (bool, error) {
	all := s.load()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].InvitedBy = toggle(all[i].InvitedBy, userID)
		if err := s.save(all); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *FileStore) InvitationStats(_ context.Context) (InvitationStats, error) {
	all := s.load()
	invited := 0
	for _, f := range all {
		if f.IsInvited() {
			invited++
		}
	}
	return newInvitationStats(invited, len(all)), nil
}

func (s *FileStore) Clear(_ context.Context) error {
	return s.save(nil)
}

func filter(in []models.Feedback, keep func(models.Feedback) bool) []models.Feedback {
	out := make([]models.Feedback, 0, len(in))
	for _, f := range in {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// sortNewestFirst orders by CreatedAt then ID, both descending, which
// matches the mongo sort on {created_at: -1, _id: -1}.
func sortNewestFirst(rows []models.Feedback) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
}

// toggle removes v from set if present, otherwise appends it.
func toggle(set []string, v string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	return out
}
