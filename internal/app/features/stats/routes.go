// internal/app/features/stats/routes.go
package stats

import "github.com/go-chi/chi/v5"

// Routes returns the router for the public stats endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// GET /api/stats - Public landing-page counters
	r.Get("/", h.HandleStats)

	return r
}
