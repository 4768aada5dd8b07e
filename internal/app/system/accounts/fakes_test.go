package accounts_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	signupstore "github.com/dalemusser/ratingdesk/internal/app/store/signups"
	userstore "github.com/dalemusser/ratingdesk/internal/app/store/users"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var errBackend = errors.New("connection refused")

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]models.User
	failAll bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBackend
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBackend
	}
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return models.User{}, errBackend
	}
	for _, ex := range f.byID {
		if ex.Email == u.Email {
			return models.User{}, userstore.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// set rewrites a stored user in place.
func (f *fakeUsers) set(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

type fakeSignups struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.SignupRequest
}

func newFakeSignups() *fakeSignups {
	return &fakeSignups{byID: map[primitive.ObjectID]models.SignupRequest{}}
}

func (f *fakeSignups) GetByID(_ context.Context, id primitive.ObjectID) (*models.SignupRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &r, nil
}

func (f *fakeSignups) GetByEmail(_ context.Context, email string) (*models.SignupRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.Email == email {
			return &r, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeSignups) Create(_ context.Context, r models.SignupRequest) (models.SignupRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.byID {
		if ex.Email == r.Email {
			return models.SignupRequest{}, signupstore.ErrDuplicateEmail
		}
	}
	r.ID = primitive.NewObjectID()
	r.Status = models.SignupPending
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeSignups) List(_ context.Context, status models.SignupStatus) ([]models.SignupRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SignupRequest, 0, len(f.byID))
	for _, r := range f.byID {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSignups) Decide(_ context.Context, id primitive.ObjectID, status models.SignupStatus, by primitive.ObjectID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || r.Status != models.SignupPending {
		return false, nil
	}
	r.Status = status
	r.DecidedBy = &by
	r.DecidedAt = &at
	r.UpdatedAt = at
	f.byID[id] = r
	return true, nil
}
