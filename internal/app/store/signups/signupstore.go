package signupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ratingdesk/internal/app/system/normalize"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding signup requests.
const CollectionName = "signup_requests"

// ErrDuplicateEmail is returned when a request for the email already exists,
// whatever its status.
var ErrDuplicateEmail = errors.New("a signup request with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// GetByID returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SignupRequest, error) {
	var r models.SignupRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByEmail returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.SignupRequest, error) {
	var r models.SignupRequest
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create stores a new pending request.
func (s *Store) Create(ctx context.Context, r models.SignupRequest) (models.SignupRequest, error) {
	r.ID = primitive.NewObjectID()
	r.Email = normalize.Email(r.Email)
	r.Name = normalize.Name(r.Name)
	r.Status = models.SignupPending
	r.DecidedBy = nil
	r.DecidedAt = nil

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.SignupRequest{}, ErrDuplicateEmail
		}
		return models.SignupRequest{}, err
	}
	return r, nil
}

// List returns requests newest first. An empty status returns all of them.
func (s *Store) List(ctx context.Context, status models.SignupStatus) ([]models.SignupRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.SignupRequest, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decide moves a pending request to status. The update is conditioned on
// the request still being pending, so of two racing deciders only one
// matches. It reports whether this call made the transition.
func (s *Store) Decide(ctx context.Context, id primitive.ObjectID, status models.SignupStatus, by primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.SignupPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"decided_by": by,
			"decided_at": at,
			"updated_at": at,
		}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
