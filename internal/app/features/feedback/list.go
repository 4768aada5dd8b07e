// internal/app/features/feedback/list.go
package feedback

import (
	"net/http"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	feedbackstore "github.com/dalemusser/ratingdesk/internal/app/store/feedback"
	"github.com/dalemusser/ratingdesk/internal/app/system/normalize"
	"github.com/dalemusser/ratingdesk/internal/app/system/paging"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type listResponse struct {
	Feedback   []models.Feedback `json:"feedback"`
	Pagination pagination        `json:"pagination"`
}

type statsResponse struct {
	feedbackstore.Stats
	Invitations feedbackstore.InvitationStats `json:"invitations"`
}

// ServeList handles GET /api/feedback?type=&email=&page=&limit=.
//
// An email filter takes precedence over type. Per-email history is not
// paginated by the store, so the handler windows it here.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	category := models.Category(query.Get(r, "type"))
	if category != "" && !category.Valid() {
		uierrors.Error(w, http.StatusBadRequest, `type must be "high-rating" or "low-rating"`)
		return
	}
	email := normalize.Email(query.Get(r, "email"))
	p := h.pageParams(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feedback list")
	defer cancel()

	if email != "" {
		rows, err := h.Store.ListByEmail(ctx, email)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list feedback by email failed", err, "Unable to load feedback.")
			return
		}
		uierrors.JSON(w, http.StatusOK, listResponse{
			Feedback: paging.Window(rows, p),
			Pagination: pagination{
				Page:       p.Page,
				Limit:      p.PageSize,
				Total:      len(rows),
				TotalPages: paging.TotalPages(len(rows), p.PageSize),
			},
		})
		return
	}

	page, err := h.Store.List(ctx, feedbackstore.ListQuery{
		Page:     p.Page,
		PageSize: p.PageSize,
		Category: category,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list feedback failed", err, "Unable to load feedback.")
		return
	}
	uierrors.JSON(w, http.StatusOK, listResponse{
		Feedback: page.Items,
		Pagination: pagination{
			Page:       page.Page,
			Limit:      page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// ServeStats handles GET /api/feedback/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feedback stats")
	defer cancel()

	stats, err := h.Store.Stats(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "feedback stats failed", err, "Unable to load statistics.")
		return
	}
	inv, err := h.Store.InvitationStats(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "invitation stats failed", err, "Unable to load statistics.")
		return
	}
	uierrors.JSON(w, http.StatusOK, statsResponse{Stats: stats, Invitations: inv})
}
