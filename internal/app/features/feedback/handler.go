// internal/app/features/feedback/handler.go
package feedback

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	feedbackstore "github.com/dalemusser/ratingdesk/internal/app/store/feedback"
	"github.com/dalemusser/ratingdesk/internal/app/system/auditlog"
	"github.com/dalemusser/ratingdesk/internal/app/system/paging"
	"github.com/dalemusser/ratingdesk/internal/app/system/webhook"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.uber.org/zap"
)

// Notifier delivers a stored feedback record to the marketing platform.
type Notifier interface {
	Send(ctx context.Context, f models.Feedback) webhook.Result
}

// Handler serves the feedback API.
type Handler struct {
	Store    feedbackstore.Store
	Notifier Notifier
	Audit    *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	// PageSize and MaxPageSize bound listings. Zero values fall back to the
	// paging package defaults.
	PageSize    int
	MaxPageSize int

	// SampleData enables the sample seed/clear endpoints. It is off in
	// production.
	SampleData bool
}

// NewHandler constructs a feedback Handler. notifier and audit may be nil.
func NewHandler(store feedbackstore.Store, notifier Notifier, audit *auditlog.Logger, sampleData bool, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      store,
		Notifier:   notifier,
		Audit:      audit,
		ErrLog:     errLog,
		Log:        logger,
		SampleData: sampleData,
	}
}

// WithPaging sets the default and maximum listing page sizes.
func (h *Handler) WithPaging(pageSize, maxPageSize int) *Handler {
	h.PageSize = pageSize
	h.MaxPageSize = maxPageSize
	return h
}

func (h *Handler) pageParams(r *http.Request) paging.Params {
	max := h.MaxPageSize
	if max < 1 {
		max = paging.MaxPageSize
	}
	return paging.FromRequest(r).Normalize(h.PageSize, max)
}
