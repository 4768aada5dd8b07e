// internal/app/features/feedback/routes.go
package feedback

import (
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/dalemusser/ratingdesk/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/feedback. Submission is public and throttled
// per client; everything else needs a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager, submitLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		if submitLimit != nil {
			pr.Use(ratelimit.PerIP(submitLimit))
		}
		pr.Post("/high-rating", h.ServeHighRating)
		pr.Post("/low-rating", h.ServeLowRating)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/stats", h.ServeStats)
		pr.Get("/export", h.ServeExport)
		pr.Post("/bulk-delete", h.ServeBulkDelete)
		pr.Post("/toggle-invitation", h.ServeToggleInvitation)
		pr.Post("/sample", h.ServeAddSample)
		pr.Delete("/sample", h.ServeClearAll)
		pr.Delete("/{id}", h.ServeDelete)
	})

	return r
}
