// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in to the dashboard.
//
// NOTE:
//   - IsSuperUser, IsApproved and IsActive are independent flags; login
//     requires both IsApproved and IsActive.
//   - PasswordHash is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	IsSuperUser  bool               `bson:"is_super_user" json:"is_super_user"`
	IsApproved   bool               `bson:"is_approved" json:"is_approved"`
	IsActive     bool               `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
