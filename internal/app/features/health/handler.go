package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client      *mongo.Client // nil in file mode
	StorageMode string
	Log         *zap.Logger
}

// NewHandler constructs a health Handler. client may be nil when storage
// is file-only.
func NewHandler(client *mongo.Client, storageMode string, logger *zap.Logger) *Handler {
	return &Handler{
		Client:      client,
		StorageMode: storageMode,
		Log:         logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Storage  string `json:"storage"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// File mode: 200 and
//
//	{ "status":"ok", "storage":"file", "database":"not configured" }
//
// Mongo mode, ping ok: 200 and
//
//	{ "status":"ok", "storage":"mongo+file", "database":"connected" }
//
// Mongo mode, ping failed: 503 and
//
//	{ "status":"degraded", "database":"disconnected", "message":"…", "error":"…" }
//
// Feedback still works through the file fallback while degraded; accounts
// do not.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Storage:  h.StorageMode,
		Database: "not configured",
	}

	if h.Client == nil {
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "degraded"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable; feedback is being written to the local file"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	resp.Database = "connected"
	_ = json.NewEncoder(w).Encode(resp)
}
