// internal/domain/models/signuprequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SignupStatus is the state of a signup request. Pending is the only
// initial state; approved and rejected are terminal.
type SignupStatus string

const (
	SignupPending  SignupStatus = "pending"
	SignupApproved SignupStatus = "approved"
	SignupRejected SignupStatus = "rejected"
)

// SignupRequest is an account application awaiting a super user's decision.
type SignupRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Status       SignupStatus       `bson:"status" json:"status"`

	DecidedBy *primitive.ObjectID `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt *time.Time          `bson:"decided_at,omitempty" json:"decided_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
