// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

// Routes registers the onboarding routes on the /api/user router. The
// caller applies the session requirement; /api/user is shared with the
// posts feature's owner-scoped routes.
func Routes(r chi.Router, h *Handler) {
	// GET /api/user/check-profile - Onboarding completion check
	r.Get("/check-profile", h.HandleCheckProfile)

	// POST /api/user/update-profile - Register roll number and phone
	r.Post("/update-profile", h.HandleUpdateProfile)
}
