// internal/app/features/account/signup.go
package account

import (
	"net/http"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/system/formutil"
	"github.com/dalemusser/ratingdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ratingdesk/internal/app/system/inputval"
	"github.com/dalemusser/ratingdesk/internal/app/system/normalize"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.uber.org/zap"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signupResponse struct {
	ID     string              `json:"id"`
	Email  string              `json:"email"`
	Name   string              `json:"name,omitempty"`
	Status models.SignupStatus `json:"status"`
}

// ServeSignup handles POST /api/auth/signup. The account is usable only
// after a super user approves the request.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	var in signupRequest
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode signup body", err, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "account signup")
	defer cancel()

	req, err := h.Accounts.Register(ctx, in.Email, in.Password, htmlsanitize.PlainText(in.Name))
	if err != nil {
		h.ErrLog.LogAccountError(w, r, "register failed", err, "Unable to submit signup request.")
		return
	}

	h.Audit.SignupSubmitted(ctx, r, req.ID.Hex(), req.Email)
	h.Log.Info("signup request submitted", zap.String("email", req.Email))
	uierrors.Message(w, http.StatusCreated,
		"Signup request submitted successfully. Please wait for admin approval.",
		signupResponse{
			ID:     req.ID.Hex(),
			Email:  req.Email,
			Name:   req.Name,
			Status: req.Status,
		})
}

type validateEmailRequest struct {
	Email string `json:"email"`
}

type validateEmailResponse struct {
	Email string `json:"email"`
	Valid bool   `json:"valid"`
}

// ServeValidateEmail handles POST /api/auth/validate-email. It checks the
// address format only; deliverability is not probed.
func (h *Handler) ServeValidateEmail(w http.ResponseWriter, r *http.Request) {
	var in validateEmailRequest
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode validate-email body", err, err.Error())
		return
	}
	email := normalize.Email(in.Email)
	if email == "" {
		uierrors.Error(w, http.StatusBadRequest, "email is required")
		return
	}
	uierrors.JSON(w, http.StatusOK, validateEmailResponse{
		Email: email,
		Valid: inputval.IsValidEmail(email),
	})
}
