// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSuperUser)

	r.Get("/signup-requests", h.ServeSignupRequests)
	r.Post("/signup-requests", h.ServeDecide)
	r.Get("/users", h.ServeUsers)
	r.Get("/audit", h.ServeAudit)
	r.Get("/audit/failed-logins", h.ServeFailedLogins)

	return r
}
