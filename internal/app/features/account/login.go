// internal/app/features/account/login.go
package account

import (
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/system/accounts"
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/dalemusser/ratingdesk/internal/app/system/formutil"
	"github.com/dalemusser/ratingdesk/internal/app/system/normalize"
	"github.com/dalemusser/ratingdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// loginRetryAfter is the Retry-After hint sent with a throttled login.
const loginRetryAfter = time.Minute

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /api/auth/login.
//
// Every credential failure answers 401 with the same message. The
// underlying reason goes to the audit log only.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login body", err, err.Error())
		return
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		uierrors.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if h.LoginLimiter != nil {
		if ok, reason := h.LoginLimiter.Check(r, email); !ok {
			h.Log.Warn("login rate limited",
				zap.String("email", email),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.Audit.LoginRateLimited(r.Context(), r, email, reason)
			ratelimit.TooMany(w, loginRetryAfter, reason)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "account login")
	defer cancel()

	u, err := h.Accounts.Login(ctx, email, in.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		h.Audit.LoginFailed(ctx, r, email, err)
		uierrors.Error(w, http.StatusUnauthorized, accounts.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login failed", err, "Unable to sign in right now.")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to sign in right now.")
		return
	}
	if h.LoginLimiter != nil {
		h.LoginLimiter.ResetEmail(email)
	}

	h.Audit.LoginSuccess(ctx, r, u.ID.Hex(), u.Email)
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("email", u.Email))
	uierrors.Message(w, http.StatusOK, "Login successful", viewOf(u))
}

// ServeLogout handles POST /api/auth/logout. It always succeeds.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if su, ok := auth.CurrentUser(r); ok {
		h.Audit.Logout(r.Context(), r, su.ID, su.Email)
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	uierrors.Message(w, http.StatusOK, "Logged out successfully", nil)
}
