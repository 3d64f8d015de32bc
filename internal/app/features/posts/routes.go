// internal/app/features/posts/routes.go
package posts

import (
	"github.com/go-chi/chi/v5"

	"github.com/campusfind/campusfind/internal/app/system/auth"
)

// Routes returns the router mounted at /api/posts. Reading the feed is
// public; creating a post requires a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// GET /api/posts - Public feed of OPEN posts
	r.Get("/", h.HandleFeed)

	// GET /api/posts/{id} - Public single-post read
	r.Get("/{id}", h.HandleGet)

	// POST /api/posts - Report a lost or found item
	r.With(auth.RequireSignedIn).Post("/", h.HandleCreate)

	return r
}

// UserRoutes registers the owner-scoped routes on the /api/user
// router. The caller applies the session requirement; /api/user is
// shared with the profile feature.
func UserRoutes(r chi.Router, h *Handler) {
	// GET /api/user/my-posts - All of the caller's posts, any status
	r.Get("/my-posts", h.HandleMyPosts)

	// POST /api/user/resolve-post - Mark a post RESOLVED
	r.Post("/resolve-post", h.HandleResolve)

	// POST /api/user/reopen-post - Return a RESOLVED post to the feed
	r.Post("/reopen-post", h.HandleReopen)

	// POST /api/user/delete-post - Remove a post entirely
	r.Post("/delete-post", h.HandleDelete)
}
