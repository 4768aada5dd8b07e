package userstore

import (
	"context"

	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection(CollectionName)}
}

// FetchUser returns nil if the user is not found, inactive, unapproved, or
// if any error occurs. A session therefore stops working as soon as the
// account is switched off.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":           1,
		"email":         1,
		"name":          1,
		"is_super_user": 1,
		"is_approved":   1,
		"is_active":     1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil
	}
	if !u.IsActive || !u.IsApproved {
		return nil
	}

	return &auth.SessionUser{
		ID:          u.ID.Hex(),
		Email:       u.Email,
		Name:        u.Name,
		IsSuperUser: u.IsSuperUser,
	}
}
