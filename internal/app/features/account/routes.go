// internal/app/features/account/routes.go
package account

import (
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/auth.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.ServeSignup)
	r.Post("/login", h.ServeLogin)
	r.Post("/logout", h.ServeLogout)
	r.Post("/validate-email", h.ServeValidateEmail)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Post("/change-password", h.ServeChangePassword)
	})

	return r
}
