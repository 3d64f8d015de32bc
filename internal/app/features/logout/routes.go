// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// Routes returns the router for the logout endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// POST /api/auth/logout - Clear the current session
	r.Post("/", h.HandleLogout)

	return r
}
