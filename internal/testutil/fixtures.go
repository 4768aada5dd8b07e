package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an approved, active user with the given password.
func (f *Fixtures) CreateUser(ctx context.Context, email, password string, super bool) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test User",
		IsSuperUser:  super,
		IsApproved:   true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateSignupRequest inserts a signup request in the given status.
func (f *Fixtures) CreateSignupRequest(ctx context.Context, email string, status models.SignupStatus) models.SignupRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.SignupRequest{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("signup_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test signup request: %v", err)
	}
	return req
}

// Feedback returns an unsaved feedback record with a category consistent
// with its rating.
func Feedback(email string, rating int) models.Feedback {
	return models.Feedback{
		Email:    email,
		Rating:   rating,
		Text:     "feedback from " + email,
		Category: models.CategoryFor(rating),
	}
}
