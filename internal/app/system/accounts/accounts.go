// Package accounts manages dashboard accounts: the configured super user,
// signup requests moving from pending to approved or rejected, login, and
// password changes. Account data lives only in MongoDB; there is no file
// fallback, so backend errors propagate to the caller.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	signupstore "github.com/dalemusser/ratingdesk/internal/app/store/signups"
	userstore "github.com/dalemusser/ratingdesk/internal/app/store/users"
	"github.com/dalemusser/ratingdesk/internal/app/system/inputval"
	"github.com/dalemusser/ratingdesk/internal/app/system/normalize"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserRepo is the user persistence the manager needs. Lookups return
// mongo.ErrNoDocuments when nothing matches.
type UserRepo interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.User, error)
}

// SignupRepo is the signup request persistence the manager needs.
type SignupRepo interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SignupRequest, error)
	GetByEmail(ctx context.Context, email string) (*models.SignupRequest, error)
	Create(ctx context.Context, r models.SignupRequest) (models.SignupRequest, error)
	List(ctx context.Context, status models.SignupStatus) ([]models.SignupRequest, error)
	Decide(ctx context.Context, id primitive.ObjectID, status models.SignupStatus, by primitive.ObjectID, at time.Time) (bool, error)
}

// DefaultMinPasswordLength applies when Config.MinPasswordLength is unset.
const DefaultMinPasswordLength = 6

// Config carries the super user credentials and password policy.
type Config struct {
	SuperUserEmail    string
	SuperUserPassword string
	SuperUserName     string
	MinPasswordLength int
}

// Manager is the account lifecycle service.
type Manager struct {
	users   UserRepo
	signups SignupRepo
	hasher  PasswordHasher
	cfg     Config
	log     *zap.Logger
	now     func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewManager wires a Manager.
func NewManager(users UserRepo, signups SignupRepo, hasher PasswordHasher, cfg Config, logger *zap.Logger) *Manager {
	if cfg.MinPasswordLength < 1 {
		cfg.MinPasswordLength = DefaultMinPasswordLength
	}
	if cfg.SuperUserName == "" {
		cfg.SuperUserName = "Super Admin"
	}
	return &Manager{
		users:   users,
		signups: signups,
		hasher:  hasher,
		cfg:     cfg,
		log:     logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SeedSuperUser creates the configured super user if no user has that email.
// Missing configuration is logged and ignored.
func (m *Manager) SeedSuperUser(ctx context.Context) error {
	email := normalize.Email(m.cfg.SuperUserEmail)
	if email == "" || m.cfg.SuperUserPassword == "" {
		m.log.Warn("super user credentials not configured; skipping seed")
		return nil
	}

	_, err := m.users.GetByEmail(ctx, email)
	if err == nil {
		m.log.Debug("super user already present", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("look up super user: %w", err)
	}

	hash, err := m.hasher.Hash(m.cfg.SuperUserPassword)
	if err != nil {
		return err
	}
	_, err = m.users.Create(ctx, models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         m.cfg.SuperUserName,
		IsSuperUser:  true,
		IsApproved:   true,
		IsActive:     true,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Another instance seeded it first.
		return nil
	}
	if err != nil {
		return fmt.Errorf("create super user: %w", err)
	}
	m.log.Info("super user created", zap.String("email", email))
	return nil
}

// Register stores a pending signup request. It fails when the email
// already belongs to a user or to any signup request.
func (m *Manager) Register(ctx context.Context, email, password, name string) (models.SignupRequest, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return models.SignupRequest{}, newError(KindValidation, "email and password are required")
	}
	if !inputval.IsValidEmail(email) {
		return models.SignupRequest{}, newError(KindValidation, "please enter a valid email address")
	}
	if err := m.checkLength(password); err != nil {
		return models.SignupRequest{}, err
	}

	if _, err := m.users.GetByEmail(ctx, email); err == nil {
		return models.SignupRequest{}, newError(KindConflict, "a user with this email already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.SignupRequest{}, fmt.Errorf("look up user: %w", err)
	}
	if _, err := m.signups.GetByEmail(ctx, email); err == nil {
		return models.SignupRequest{}, newError(KindConflict, "a signup request already exists for this email")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.SignupRequest{}, fmt.Errorf("look up signup request: %w", err)
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return models.SignupRequest{}, err
	}
	req, err := m.signups.Create(ctx, models.SignupRequest{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	})
	if errors.Is(err, signupstore.ErrDuplicateEmail) {
		return models.SignupRequest{}, newError(KindConflict, "a signup request already exists for this email")
	}
	if err != nil {
		return models.SignupRequest{}, fmt.Errorf("create signup request: %w", err)
	}
	return req, nil
}

// Login returns the user when the credentials match an active, approved
// account. Every rejection is an *AuthError with the same message; the
// reason is only logged.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalize.Email(email)

	u, err := m.users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Spend the same effort as a real comparison.
		_ = m.hasher.Compare(m.dummy(), password)
		return nil, m.reject(email, ReasonUnknownEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if m.hasher.Compare(u.PasswordHash, password) != nil {
		return nil, m.reject(email, ReasonBadPassword)
	}
	if !u.IsActive {
		return nil, m.reject(email, ReasonInactive)
	}
	if !u.IsApproved {
		return nil, m.reject(email, ReasonUnapproved)
	}
	return u, nil
}

func (m *Manager) reject(email, reason string) error {
	m.log.Info("login rejected", zap.String("email", email), zap.String("reason", reason))
	return &AuthError{Reason: reason}
}

func (m *Manager) dummy() string {
	m.dummyOnce.Do(func() {
		m.dummyHash, _ = m.hasher.Hash("no-such-account-placeholder")
	})
	return m.dummyHash
}

// Approve creates a regular, approved, active user from a pending request
// and marks the request approved. The two writes are not atomic; if the
// request was decided concurrently the new user is removed again.
func (m *Manager) Approve(ctx context.Context, requestID, approverID string) (models.User, error) {
	req, approver, err := m.loadPending(ctx, requestID, approverID)
	if err != nil {
		return models.User{}, err
	}

	u, err := m.users.Create(ctx, models.User{
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		Name:         req.Name,
		IsApproved:   true,
		IsActive:     true,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, newError(KindConflict, "a user with this email already exists")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	ok, err := m.signups.Decide(ctx, req.ID, models.SignupApproved, approver, m.now())
	if err == nil && !ok {
		err = newError(KindConflict, "signup request is not pending")
	}
	if err != nil {
		if derr := m.users.Delete(ctx, u.ID); derr != nil {
			m.log.Error("failed to remove user after approval failed",
				zap.String("user_id", u.ID.Hex()), zap.Error(derr))
		}
		if KindOf(err) != "" {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("mark signup request approved: %w", err)
	}

	m.log.Info("signup request approved",
		zap.String("request_id", req.ID.Hex()),
		zap.String("email", req.Email),
		zap.String("approved_by", approver.Hex()))
	return u, nil
}

// Reject marks a pending request rejected. No user is created.
func (m *Manager) Reject(ctx context.Context, requestID, approverID string) error {
	req, approver, err := m.loadPending(ctx, requestID, approverID)
	if err != nil {
		return err
	}

	ok, err := m.signups.Decide(ctx, req.ID, models.SignupRejected, approver, m.now())
	if err != nil {
		return fmt.Errorf("mark signup request rejected: %w", err)
	}
	if !ok {
		return newError(KindConflict, "signup request is not pending")
	}

	m.log.Info("signup request rejected",
		zap.String("request_id", req.ID.Hex()),
		zap.String("email", req.Email),
		zap.String("rejected_by", approver.Hex()))
	return nil
}

func (m *Manager) loadPending(ctx context.Context, requestID, approverID string) (*models.SignupRequest, primitive.ObjectID, error) {
	approver, err := primitive.ObjectIDFromHex(approverID)
	if err != nil {
		return nil, primitive.NilObjectID, newError(KindValidation, "invalid approver id")
	}
	rid, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, primitive.NilObjectID, newError(KindNotFound, "signup request not found")
	}

	req, err := m.signups.GetByID(ctx, rid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, primitive.NilObjectID, newError(KindNotFound, "signup request not found")
	}
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("load signup request: %w", err)
	}
	if req.Status != models.SignupPending {
		return nil, primitive.NilObjectID, newError(KindConflict, "signup request is not pending")
	}
	return req, approver, nil
}

// ChangePassword replaces the user's password. The new password must meet
// the length policy, the current one must verify, and the two must differ.
func (m *Manager) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return newError(KindValidation, "current password and new password are required")
	}
	if err := m.checkLength(next); err != nil {
		return err
	}

	u, err := m.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if m.hasher.Compare(u.PasswordHash, current) != nil {
		return newError(KindValidation, "current password is incorrect")
	}
	if current == next {
		return newError(KindValidation, "new password must be different from current password")
	}

	hash, err := m.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := m.users.UpdatePassword(ctx, u.ID, hash, m.now()); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return newError(KindNotFound, "user not found")
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

func (m *Manager) checkLength(password string) error {
	if len([]rune(password)) < m.cfg.MinPasswordLength {
		return newError(KindValidation,
			fmt.Sprintf("password must be at least %d characters long", m.cfg.MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return newError(KindValidation,
			fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}

// GetByID returns a not-found *Error for unknown or malformed ids.
func (m *Manager) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, newError(KindNotFound, "user not found")
	}
	u, err := m.users.GetByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, newError(KindNotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// GetByEmail returns a not-found *Error when no user has email.
func (m *Manager) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := m.users.GetByEmail(ctx, normalize.Email(email))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, newError(KindNotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// ListSignupRequests returns requests newest first; empty status means all.
func (m *Manager) ListSignupRequests(ctx context.Context, status models.SignupStatus) ([]models.SignupRequest, error) {
	return m.signups.List(ctx, status)
}

// ListUsers returns every user, newest first.
func (m *Manager) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.users.List(ctx)
}
