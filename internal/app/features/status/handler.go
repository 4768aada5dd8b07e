// internal/app/features/status/handler.go
package status

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	feedbackstore "github.com/dalemusser/ratingdesk/internal/app/store/feedback"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Config is the slice of application configuration the report shows.
type Config struct {
	Environment  string
	FeedbackFile string
	HasMongoURI  bool
}

// Handler serves the storage status report.
type Handler struct {
	Store feedbackstore.Store
	Cfg   Config
	Log   *zap.Logger
	now   func() time.Time
}

// NewHandler constructs a status Handler.
func NewHandler(store feedbackstore.Store, cfg Config, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Cfg: cfg, Log: logger, now: time.Now}
}

type report struct {
	Environment    string    `json:"environment"`
	StorageMode    string    `json:"storageMode"`
	StorageDetails string    `json:"storageDetails"`
	HasMongoURI    bool      `json:"hasMongoUri"`
	FeedbackCount  int       `json:"feedbackCount"`
	StorageTest    string    `json:"storageTest"`
	Timestamp      time.Time `json:"timestamp"`
}

// Serve handles GET /api/storage-status. A failing probe is reported in
// the body, not as an error status.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	rep := report{
		Environment:    h.Cfg.Environment,
		StorageMode:    h.Store.Mode(),
		StorageDetails: h.details(),
		HasMongoURI:    h.Cfg.HasMongoURI,
		StorageTest:    "success",
		Timestamp:      h.now().UTC(),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "storage status probe")
	defer cancel()

	page, err := h.Store.List(ctx, feedbackstore.ListQuery{Page: 1, PageSize: 1})
	if err != nil {
		h.Log.Warn("storage status probe failed", zap.Error(err))
		rep.StorageTest = "failed: " + err.Error()
	} else {
		rep.FeedbackCount = page.Total
	}

	uierrors.JSON(w, http.StatusOK, rep)
}

func (h *Handler) details() string {
	switch h.Store.Mode() {
	case "file":
		return "JSON file at " + h.Cfg.FeedbackFile
	case "mongo+file":
		return "MongoDB with fallback to " + h.Cfg.FeedbackFile
	default:
		return h.Store.Mode()
	}
}
