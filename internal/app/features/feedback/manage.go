// internal/app/features/feedback/manage.go
package feedback

import (
	"fmt"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/dalemusser/ratingdesk/internal/app/system/formutil"
	"github.com/dalemusser/ratingdesk/internal/app/system/limits"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeDelete handles DELETE /api/feedback/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		uierrors.Error(w, http.StatusBadRequest, "feedback id is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "feedback delete")
	defer cancel()

	ok, err := h.Store.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete feedback failed", err, "Unable to delete feedback.")
		return
	}
	if !ok {
		uierrors.Error(w, http.StatusNotFound, "feedback not found")
		return
	}
	h.Audit.FeedbackDeleted(ctx, r, actor(r), id)
	h.Log.Info("feedback deleted", zap.String("id", id), zap.String("by", actor(r)))
	uierrors.Message(w, http.StatusOK, "Feedback deleted", nil)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type bulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// ServeBulkDelete handles POST /api/feedback/bulk-delete with {"ids": [...]}.
// Unknown ids are skipped; the response counts what was removed.
func (h *Handler) ServeBulkDelete(w http.ResponseWriter, r *http.Request) {
	var in bulkDeleteRequest
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode bulk delete body", err, err.Error())
		return
	}
	if len(in.IDs) == 0 {
		uierrors.Error(w, http.StatusBadRequest, "ids are required")
		return
	}
	if len(in.IDs) > limits.MaxBulkDelete {
		uierrors.Error(w, http.StatusBadRequest,
			fmt.Sprintf("at most %d ids may be deleted at once", limits.MaxBulkDelete))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feedback bulk delete")
	defer cancel()

	n, err := h.Store.DeleteMany(ctx, in.IDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bulk delete feedback failed", err, "Unable to delete feedback.")
		return
	}
	h.Audit.FeedbackBulkDeleted(ctx, r, actor(r), len(in.IDs), n)
	h.Log.Info("feedback bulk deleted",
		zap.Int("requested", len(in.IDs)),
		zap.Int("deleted", n),
		zap.String("by", actor(r)))
	uierrors.JSON(w, http.StatusOK, bulkDeleteResponse{Deleted: n})
}

type toggleRequest struct {
	FeedbackID string `json:"feedbackId"`
}

// ServeToggleInvitation handles POST /api/feedback/toggle-invitation. The
// signed-in user is added to or removed from the record's InvitedBy set.
func (h *Handler) ServeToggleInvitation(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in toggleRequest
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode toggle body", err, err.Error())
		return
	}
	id := strings.TrimSpace(in.FeedbackID)
	if id == "" {
		uierrors.Error(w, http.StatusBadRequest, "feedback id is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "feedback toggle invitation")
	defer cancel()

	found, err := h.Store.ToggleInvitation(ctx, id, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "toggle invitation failed", err, "Unable to toggle invitation.")
		return
	}
	if !found {
		uierrors.Error(w, http.StatusNotFound, "feedback not found")
		return
	}
	uierrors.Message(w, http.StatusOK, "Invitation toggled successfully", nil)
}

func actor(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}
