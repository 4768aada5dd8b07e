// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/store/audit"
	"github.com/dalemusser/ratingdesk/internal/app/system/auditlog"
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/dalemusser/ratingdesk/internal/app/system/formutil"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Accounts is the slice of the account manager the admin pages use.
type Accounts interface {
	ListSignupRequests(ctx context.Context, status models.SignupStatus) ([]models.SignupRequest, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	Approve(ctx context.Context, requestID, approverID string) (models.User, error)
	Reject(ctx context.Context, requestID, approverID string) error
}

// AuditEvents reads the stored audit trail.
type AuditEvents interface {
	Query(ctx context.Context, f audit.QueryFilter) ([]audit.Event, error)
	Count(ctx context.Context, f audit.QueryFilter) (int64, error)
	GetFailedLogins(ctx context.Context, since time.Time, limit int64) ([]audit.Event, error)
}

// Handler serves /api/admin. Every route requires a super user.
type Handler struct {
	Accounts Accounts
	Events   AuditEvents
	Audit    *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs an admin Handler. auditLog may be nil.
func NewHandler(accts Accounts, events AuditEvents, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Accounts: accts, Events: events, Audit: auditLog, ErrLog: errLog, Log: logger}
}

// ServeSignupRequests handles GET /api/admin/signup-requests?status=.
// Without a status every request is listed.
func (h *Handler) ServeSignupRequests(w http.ResponseWriter, r *http.Request) {
	status := models.SignupStatus(strings.ToLower(query.Get(r, "status")))
	switch status {
	case "", models.SignupPending, models.SignupApproved, models.SignupRejected:
	default:
		uierrors.Error(w, http.StatusBadRequest, `status must be "pending", "approved" or "rejected"`)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin list signup requests")
	defer cancel()

	reqs, err := h.Accounts.ListSignupRequests(ctx, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list signup requests failed", err, "Unable to load signup requests.")
		return
	}
	uierrors.JSON(w, http.StatusOK, reqs)
}

type decisionRequest struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
}

// ServeDecide handles POST /api/admin/signup-requests with
// {"requestId": "...", "action": "approve"|"reject"}.
func (h *Handler) ServeDecide(w http.ResponseWriter, r *http.Request) {
	admin, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in decisionRequest
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode decision body", err, err.Error())
		return
	}
	if strings.TrimSpace(in.RequestID) == "" {
		uierrors.Error(w, http.StatusBadRequest, "request id is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin decide signup")
	defer cancel()

	switch in.Action {
	case "approve":
		u, err := h.Accounts.Approve(ctx, in.RequestID, admin.ID)
		if err != nil {
			h.ErrLog.LogAccountError(w, r, "approve signup failed", err, "Unable to approve request.")
			return
		}
		h.Log.Info("signup approved",
			zap.String("request_id", in.RequestID),
			zap.String("user_id", u.ID.Hex()),
			zap.String("by", admin.ID))
		h.Audit.SignupApproved(ctx, r, admin.ID, in.RequestID, u.ID.Hex(), u.Email)
		uierrors.Message(w, http.StatusOK, "User approved successfully", u)
	case "reject":
		if err := h.Accounts.Reject(ctx, in.RequestID, admin.ID); err != nil {
			h.ErrLog.LogAccountError(w, r, "reject signup failed", err, "Unable to reject request.")
			return
		}
		h.Log.Info("signup rejected",
			zap.String("request_id", in.RequestID),
			zap.String("by", admin.ID))
		h.Audit.SignupRejected(ctx, r, admin.ID, in.RequestID)
		uierrors.Message(w, http.StatusOK, "User rejected successfully", nil)
	default:
		uierrors.Error(w, http.StatusBadRequest, `action must be "approve" or "reject"`)
	}
}

// ServeUsers handles GET /api/admin/users.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin list users")
	defer cancel()

	users, err := h.Accounts.ListUsers(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "Unable to load users.")
		return
	}
	uierrors.JSON(w, http.StatusOK, users)
}
