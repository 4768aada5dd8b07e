// internal/app/features/feedback/export.go
package feedback

import (
	"fmt"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/system/csvutil"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// ServeExport handles GET /api/feedback/export?type= and streams the
// matching records, newest first, as a CSV attachment.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	category := models.Category(query.Get(r, "type"))
	if category != "" && !category.Valid() {
		uierrors.Error(w, http.StatusBadRequest, `type must be "high-rating" or "low-rating"`)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feedback export")
	defer cancel()

	rows, err := h.Store.Export(ctx, category, csvutil.MaxExportRows+1)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "feedback export failed", err, "Unable to export feedback.")
		return
	}
	if len(rows) > csvutil.MaxExportRows {
		h.Log.Warn("feedback export truncated", zap.Int("max", csvutil.MaxExportRows))
		rows = rows[:csvutil.MaxExportRows]
	}

	name := fmt.Sprintf("feedback-%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if err := csvutil.WriteFeedback(w, rows); err != nil {
		h.Log.Warn("feedback export write failed", zap.Error(err))
	}
}
