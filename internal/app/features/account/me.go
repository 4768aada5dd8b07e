// internal/app/features/account/me.go
package account

import (
	"net/http"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/system/accounts"
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/dalemusser/ratingdesk/internal/app/system/formutil"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeMe handles GET /api/auth/me with a fresh read of the account.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "account me")
	defer cancel()

	u, err := h.Accounts.GetByID(ctx, su.ID)
	if accounts.KindOf(err) == accounts.KindNotFound {
		uierrors.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load current user failed", err, "Unable to load account.")
		return
	}
	if !u.IsActive {
		uierrors.Error(w, http.StatusUnauthorized, "account is deactivated")
		return
	}
	uierrors.JSON(w, http.StatusOK, viewOf(u))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ServeChangePassword handles POST /api/auth/change-password.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in changePasswordRequest
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode change-password body", err, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "account change password")
	defer cancel()

	if err := h.Accounts.ChangePassword(ctx, su.ID, in.CurrentPassword, in.NewPassword); err != nil {
		h.ErrLog.LogAccountError(w, r, "change password failed", err, "Unable to change password.")
		return
	}
	h.Audit.PasswordChanged(ctx, r, su.ID)
	h.Log.Info("password changed", zap.String("user_id", su.ID))
	uierrors.Message(w, http.StatusOK, "Password changed successfully", nil)
}
