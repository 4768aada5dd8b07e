// internal/app/features/feedback/sample.go
package feedback

import (
	"net/http"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.uber.org/zap"
)

// sampleFeedback seeds a development dashboard.
var sampleFeedback = []models.Feedback{
	{
		Email: "john@example.com", Rating: 5, Name: "John Smith", Category: models.CategoryHigh,
		Text:     "Amazing service! The team was very responsive and helpful.",
		SourceIP: "192.168.1.1", UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	},
	{
		Email: "sarah@example.com", Rating: 4, Name: "Sarah Johnson", Category: models.CategoryHigh,
		Text:     "Great experience overall. Would recommend to others.",
		SourceIP: "192.168.1.2", UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	},
	{
		Email: "mike@example.com", Rating: 2, Name: "Mike Wilson", Category: models.CategoryLow,
		Text:     "The service was slow and the interface was confusing.",
		SourceIP: "192.168.1.3", UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 14_7_1 like Mac OS X) AppleWebKit/605.1.15",
	},
	{
		Email: "lisa@example.com", Rating: 1, Name: "Lisa Brown", Category: models.CategoryLow,
		Text:     "Terrible experience. Nothing worked as expected.",
		SourceIP: "192.168.1.4", UserAgent: "Mozilla/5.0 (Android 11; Mobile; rv:68.0) Gecko/68.0 Firefox/88.0",
	},
	{
		Email: "david@example.com", Rating: 5, Name: "David Lee", Category: models.CategoryHigh,
		Text:     "Excellent! Fast, reliable, and user-friendly.",
		SourceIP: "192.168.1.5", UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	},
}

// ServeAddSample handles POST /api/feedback/sample.
func (h *Handler) ServeAddSample(w http.ResponseWriter, r *http.Request) {
	if !h.SampleData {
		uierrors.Error(w, http.StatusForbidden, "sample data can only be added in development mode")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feedback add sample")
	defer cancel()

	for _, f := range sampleFeedback {
		if _, err := h.Store.Create(ctx, f); err != nil {
			h.ErrLog.LogServerError(w, r, "add sample feedback failed", err, "Unable to add sample data.")
			return
		}
	}
	h.Log.Info("sample feedback added", zap.Int("count", len(sampleFeedback)))
	uierrors.Message(w, http.StatusOK, "Sample feedback data added successfully", nil)
}

// ServeClearAll handles DELETE /api/feedback/sample. It removes every
// record, not only the samples.
func (h *Handler) ServeClearAll(w http.ResponseWriter, r *http.Request) {
	if !h.SampleData {
		uierrors.Error(w, http.StatusForbidden, "sample data can only be cleared in development mode")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feedback clear")
	defer cancel()

	if err := h.Store.Clear(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "clear feedback failed", err, "Unable to clear feedback data.")
		return
	}
	h.Audit.FeedbackCleared(ctx, r, actor(r))
	h.Log.Warn("all feedback cleared", zap.String("by", actor(r)))
	uierrors.Message(w, http.StatusOK, "All feedback data cleared successfully", nil)
}
