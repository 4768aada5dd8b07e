// internal/app/features/account/handler.go
package account

import (
	"context"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/system/auditlog"
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/dalemusser/ratingdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.uber.org/zap"
)

// Accounts is the slice of the account manager the handlers call.
type Accounts interface {
	Register(ctx context.Context, email, password, name string) (models.SignupRequest, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Handler serves /api/auth.
type Handler struct {
	Accounts     Accounts
	SessionMgr   *auth.SessionManager
	LoginLimiter *ratelimit.LoginLimiter
	Audit        *auditlog.Logger
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

// NewHandler constructs an account Handler. limiter and audit may be nil.
func NewHandler(accts Accounts, sm *auth.SessionManager, limiter *ratelimit.LoginLimiter, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts:     accts,
		SessionMgr:   sm,
		LoginLimiter: limiter,
		Audit:        audit,
		ErrLog:       errLog,
		Log:          logger,
	}
}

// userView is the public shape of an account.
type userView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	IsSuperUser bool   `json:"isSuperUser"`
	IsApproved  bool   `json:"isApproved"`
	IsActive    bool   `json:"isActive"`
}

func viewOf(u *models.User) userView {
	return userView{
		ID:          u.ID.Hex(),
		Email:       u.Email,
		Name:        u.Name,
		IsSuperUser: u.IsSuperUser,
		IsApproved:  u.IsApproved,
		IsActive:    u.IsActive,
	}
}
