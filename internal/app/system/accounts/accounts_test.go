package accounts_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/ratingdesk/internal/app/system/accounts"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

type harness struct {
	mgr     *accounts.Manager
	users   *fakeUsers
	signups *fakeSignups
	hasher  accounts.PasswordHasher
}

func newHarness(t *testing.T, cfg accounts.Config) *harness {
	t.Helper()
	h := &harness{
		users:   newFakeUsers(),
		signups: newFakeSignups(),
		hasher:  accounts.NewBcryptHasher(bcrypt.MinCost),
	}
	h.mgr = accounts.NewManager(h.users, h.signups, h.hasher, cfg, zap.NewNop())
	return h
}

// addUser stores a user directly, bypassing signup.
func (h *harness) addUser(t *testing.T, email, password string, approved, active bool) models.User {
	t.Helper()
	hash, err := h.hasher.Hash(password)
	require.NoError(t, err)
	u, err := h.users.Create(context.Background(), models.User{
		Email:        email,
		PasswordHash: hash,
		IsApproved:   approved,
		IsActive:     active,
	})
	require.NoError(t, err)
	return u
}

func TestSeedSuperUser(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{SuperUserEmail: "Root@Example.com", SuperUserPassword: "rootpass"})

	require.NoError(t, h.mgr.SeedSuperUser(ctx))
	require.NoError(t, h.mgr.SeedSuperUser(ctx))
	assert.Equal(t, 1, h.users.count(), "seeding twice must not create a second user")

	u, err := h.mgr.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsSuperUser)
	assert.True(t, u.IsApproved)
	assert.True(t, u.IsActive)
	assert.Equal(t, "Super Admin", u.Name)

	_, err = h.mgr.Login(ctx, "root@example.com", "rootpass")
	assert.NoError(t, err)
}

func TestSeedSuperUser_NotConfigured(t *testing.T) {
	h := newHarness(t, accounts.Config{SuperUserEmail: "root@example.com"})

	require.NoError(t, h.mgr.SeedSuperUser(context.Background()))
	assert.Equal(t, 0, h.users.count())
}

func TestSeedSuperUser_BackendError(t *testing.T) {
	h := newHarness(t, accounts.Config{SuperUserEmail: "root@example.com", SuperUserPassword: "rootpass"})
	h.users.failAll = true

	assert.ErrorIs(t, h.mgr.SeedSuperUser(context.Background()), errBackend)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{})

	req, err := h.mgr.Register(ctx, "  New@Example.com ", "secret1", "New User")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", req.Email)
	assert.Equal(t, models.SignupPending, req.Status)
	assert.NotEqual(t, "secret1", req.PasswordHash)
	assert.NoError(t, h.hasher.Compare(req.PasswordHash, "secret1"))
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t, accounts.Config{})

	tests := []struct {
		name, email, password string
	}{
		{"missing email", "", "secret1"},
		{"missing password", "a@example.com", ""},
		{"bad email", "not-an-email", "secret1"},
		{"short password", "a@example.com", "12345"},
		{"password over 72 bytes", "long@example.com", strings.Repeat("a", 80)},
		{"multibyte password over 72 bytes", "long@example.com", strings.Repeat("é", 40)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.mgr.Register(context.Background(), tc.email, tc.password, "")
			require.Error(t, err)
			assert.Equal(t, accounts.KindValidation, accounts.KindOf(err))
		})
	}
}

func TestRegister_Conflicts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{})
	h.addUser(t, "taken@example.com", "secret1", true, true)

	_, err := h.mgr.Register(ctx, "taken@example.com", "secret1", "")
	assert.Equal(t, accounts.KindConflict, accounts.KindOf(err))

	_, err = h.mgr.Register(ctx, "pending@example.com", "secret1", "")
	require.NoError(t, err)
	_, err = h.mgr.Register(ctx, "PENDING@example.com", "secret2", "")
	assert.Equal(t, accounts.KindConflict, accounts.KindOf(err))
}

func TestLogin_Success(t *testing.T) {
	h := newHarness(t, accounts.Config{})
	want := h.addUser(t, "ok@example.com", "secret1", true, true)

	u, err := h.mgr.Login(context.Background(), " OK@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, u.ID)
}

func TestLogin_FailsUniformly(t *testing.T) {
	h := newHarness(t, accounts.Config{})
	h.addUser(t, "active@example.com", "secret1", true, true)
	h.addUser(t, "inactive@example.com", "secret1", true, false)
	h.addUser(t, "unapproved@example.com", "secret1", false, true)

	cases := []struct {
		name, email, password, reason string
	}{
		{"unknown email", "ghost@example.com", "secret1", accounts.ReasonUnknownEmail},
		{"wrong password", "active@example.com", "wrong-pass", accounts.ReasonBadPassword},
		{"inactive", "inactive@example.com", "secret1", accounts.ReasonInactive},
		{"unapproved", "unapproved@example.com", "secret1", accounts.ReasonUnapproved},
	}

	var messages []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := h.mgr.Login(context.Background(), tc.email, tc.password)
			assert.Nil(t, u)
			require.Error(t, err)
			assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)

			var authErr *accounts.AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tc.reason, authErr.Reason)
			messages = append(messages, err.Error())
		})
	}

	require.Len(t, messages, len(cases))
	for _, m := range messages {
		assert.Equal(t, messages[0], m)
	}
}

func TestLogin_BackendErrorIsNotAuthError(t *testing.T) {
	h := newHarness(t, accounts.Config{})
	h.users.failAll = true

	_, err := h.mgr.Login(context.Background(), "a@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, accounts.ErrInvalidCredentials)
	assert.ErrorIs(t, err, errBackend)
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{})
	approver := h.addUser(t, "boss@example.com", "secret1", true, true)

	req, err := h.mgr.Register(ctx, "joiner@example.com", "secret1", "Joiner")
	require.NoError(t, err)

	u, err := h.mgr.Approve(ctx, req.ID.Hex(), approver.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "joiner@example.com", u.Email)
	assert.False(t, u.IsSuperUser)
	assert.True(t, u.IsApproved)
	assert.True(t, u.IsActive)

	stored, err := h.signups.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SignupApproved, stored.Status)
	require.NotNil(t, stored.DecidedBy)
	assert.Equal(t, approver.ID, *stored.DecidedBy)
	assert.NotNil(t, stored.DecidedAt)

	_, err = h.mgr.Login(ctx, "joiner@example.com", "secret1")
	assert.NoError(t, err, "approved user logs in with the signup password")
}

func TestApprove_Twice(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{})
	approver := h.addUser(t, "boss@example.com", "secret1", true, true)
	req, err := h.mgr.Register(ctx, "once@example.com", "secret1", "")
	require.NoError(t, err)

	_, err = h.mgr.Approve(ctx, req.ID.Hex(), approver.ID.Hex())
	require.NoError(t, err)
	before := h.users.count()

	_, err = h.mgr.Approve(ctx, req.ID.Hex(), approver.ID.Hex())
	assert.Equal(t, accounts.KindConflict, accounts.KindOf(err))
	assert.Equal(t, before, h.users.count(), "a second approval must not create another user")

	err = h.mgr.Reject(ctx, req.ID.Hex(), approver.ID.Hex())
	assert.Equal(t, accounts.KindConflict, accounts.KindOf(err))
}

func TestApprove_NotFound(t *testing.T) {
	h := newHarness(t, accounts.Config{})
	approver := primitive.NewObjectID().Hex()

	_, err := h.mgr.Approve(context.Background(), primitive.NewObjectID().Hex(), approver)
	assert.Equal(t, accounts.KindNotFound, accounts.KindOf(err))

	_, err = h.mgr.Approve(context.Background(), "garbage", approver)
	assert.Equal(t, accounts.KindNotFound, accounts.KindOf(err))
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{})
	approver := h.addUser(t, "boss@example.com", "secret1", true, true)
	req, err := h.mgr.Register(ctx, "nope@example.com", "secret1", "")
	require.NoError(t, err)
	before := h.users.count()

	require.NoError(t, h.mgr.Reject(ctx, req.ID.Hex(), approver.ID.Hex()))
	assert.Equal(t, before, h.users.count())

	stored, err := h.signups.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SignupRejected, stored.Status)

	_, err = h.mgr.Approve(ctx, req.ID.Hex(), approver.ID.Hex())
	assert.Equal(t, accounts.KindConflict, accounts.KindOf(err))

	_, err = h.mgr.Register(ctx, "nope@example.com", "secret1", "")
	assert.Equal(t, accounts.KindConflict, accounts.KindOf(err), "a rejected email cannot sign up again")
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{})
	u := h.addUser(t, "pw@example.com", "oldpass", true, true)

	require.NoError(t, h.mgr.ChangePassword(ctx, u.ID.Hex(), "oldpass", "newpass"))

	_, err := h.mgr.Login(ctx, "pw@example.com", "oldpass")
	assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	_, err = h.mgr.Login(ctx, "pw@example.com", "newpass")
	assert.NoError(t, err)

	stored, err := h.mgr.GetByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, u.Email, stored.Email)
	assert.True(t, stored.UpdatedAt.After(u.UpdatedAt) || stored.UpdatedAt.Equal(u.UpdatedAt))
}

func TestChangePassword_Rules(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{})
	u := h.addUser(t, "rules@example.com", "oldpass", true, true)

	tests := []struct {
		name, current, next string
		kind                 accounts.Kind
	}{
		{"too short", "oldpass", "12345", accounts.KindValidation},
		{"too long", "oldpass", strings.Repeat("a", 80), accounts.KindValidation},
		{"wrong current", "badpass", "newpass", accounts.KindValidation},
		{"same as current", "oldpass", "oldpass", accounts.KindValidation},
		{"missing", "", "newpass", accounts.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := h.mgr.ChangePassword(ctx, u.ID.Hex(), tc.current, tc.next)
			assert.Equal(t, tc.kind, accounts.KindOf(err))
		})
	}

	_, err := h.mgr.Login(ctx, "rules@example.com", "oldpass")
	assert.NoError(t, err, "failed changes leave the password alone")

	err = h.mgr.ChangePassword(ctx, primitive.NewObjectID().Hex(), "oldpass", "newpass")
	assert.Equal(t, accounts.KindNotFound, accounts.KindOf(err))
}

func TestChangePassword_CustomMinimum(t *testing.T) {
	h := newHarness(t, accounts.Config{MinPasswordLength: 10})
	u := h.addUser(t, "long@example.com", "oldpass", true, true)

	err := h.mgr.ChangePassword(context.Background(), u.ID.Hex(), "oldpass", "ninechars")
	assert.Equal(t, accounts.KindValidation, accounts.KindOf(err))
}

func TestGetByID_Malformed(t *testing.T) {
	h := newHarness(t, accounts.Config{})

	_, err := h.mgr.GetByID(context.Background(), "xyz")
	assert.Equal(t, accounts.KindNotFound, accounts.KindOf(err))
}

func TestListSignupRequests(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, accounts.Config{})
	approver := h.addUser(t, "boss@example.com", "secret1", true, true)

	a, err := h.mgr.Register(ctx, "a@example.com", "secret1", "")
	require.NoError(t, err)
	_, err = h.mgr.Register(ctx, "b@example.com", "secret1", "")
	require.NoError(t, err)
	require.NoError(t, h.mgr.Reject(ctx, a.ID.Hex(), approver.ID.Hex()))

	pending, err := h.mgr.ListSignupRequests(ctx, models.SignupPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := h.mgr.ListSignupRequests(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	users, err := h.mgr.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, accounts.Kind(""), accounts.KindOf(errors.New("plain")))
	assert.Equal(t, accounts.Kind(""), accounts.KindOf(nil))
}
