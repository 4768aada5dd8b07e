// internal/app/features/admin/audit.go
package admin

import (
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/store/audit"
	"github.com/dalemusser/ratingdesk/internal/app/system/paging"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	auditPageSize      = 50
	failedLoginsWindow = 24 * time.Hour
	maxFailedLoginHrs  = 24 * 30
)

type auditPagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type auditResponse struct {
	Events     []audit.Event   `json:"events"`
	Pagination auditPagination `json:"pagination"`
}

// ServeAudit handles GET /api/admin/audit with optional category, type,
// userId, start_date and end_date (YYYY-MM-DD) filters.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	filter, msg := auditFilter(r)
	if msg != "" {
		uierrors.Error(w, http.StatusBadRequest, msg)
		return
	}
	p := paging.FromRequest(r).Normalize(auditPageSize, paging.MaxPageSize)
	filter.Limit = int64(p.PageSize)
	filter.Offset = int64(p.Offset())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin audit list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "Unable to load audit log.")
		return
	}
	total, err := h.Events.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "Unable to load audit log.")
		return
	}

	uierrors.JSON(w, http.StatusOK, auditResponse{
		Events: events,
		Pagination: auditPagination{
			Page:       p.Page,
			Limit:      p.PageSize,
			Total:      int(total),
			TotalPages: paging.TotalPages(int(total), p.PageSize),
		},
	})
}

func auditFilter(r *http.Request) (audit.QueryFilter, string) {
	var f audit.QueryFilter

	switch c := query.Get(r, "category"); c {
	case "", audit.CategoryAuth, audit.CategoryAdmin:
		f.Category = c
	default:
		return f, `category must be "auth" or "admin"`
	}
	f.EventType = query.Get(r, "type")

	if s := query.Get(r, "userId"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, "userId is not a valid id"
		}
		f.UserID = &id
	}
	if s := query.Get(r, "start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, "start_date must be YYYY-MM-DD"
		}
		f.StartTime = &t
	}
	if s := query.Get(r, "end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, "end_date must be YYYY-MM-DD"
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f, ""
}

// ServeFailedLogins handles GET /api/admin/audit/failed-logins?hours=.
// The window defaults to 24 hours and is capped at 30 days.
func (h *Handler) ServeFailedLogins(w http.ResponseWriter, r *http.Request) {
	window := failedLoginsWindow
	if s := query.Get(r, "hours"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxFailedLoginHrs {
			uierrors.Error(w, http.StatusBadRequest, "hours must be between 1 and 720")
			return
		}
		window = time.Duration(n) * time.Hour
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin failed logins")
	defer cancel()

	events, err := h.Events.GetFailedLogins(ctx, time.Now().UTC().Add(-window), audit.DefaultLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query failed logins failed", err, "Unable to load audit log.")
		return
	}
	uierrors.JSON(w, http.StatusOK, events)
}
