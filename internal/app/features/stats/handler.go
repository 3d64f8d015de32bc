// internal/app/features/stats/handler.go
package stats

import (
	"net/http"

	"go.uber.org/zap"

	poststore "github.com/campusfind/campusfind/internal/app/store/posts"
	userstore "github.com/campusfind/campusfind/internal/app/store/users"
	"github.com/campusfind/campusfind/internal/app/system/timeouts"
	"github.com/campusfind/campusfind/internal/app/system/webjson"
)

// Handler serves the landing-page counters.
type Handler struct {
	Posts *poststore.Store
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(posts *poststore.Store, users *userstore.Store, log *zap.Logger) *Handler {
	return &Handler{Posts: posts, Users: users, Log: log}
}

type statsPayload struct {
	TotalPosts       int64 `json:"totalPosts"`
	ActiveListings   int64 `json:"activeListings"`
	ItemsReturned    int64 `json:"itemsReturned"`
	CommunityMembers int64 `json:"communityMembers"`
}

// HandleStats serves the public counters.
// GET /api/stats
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load stats")
	defer cancel()

	st, err := h.Posts.GetStats(ctx)
	if err != nil {
		webjson.Internal(w, h.Log, "load post stats", err)
		return
	}
	members, err := h.Users.Count(ctx)
	if err != nil {
		webjson.Internal(w, h.Log, "count users", err)
		return
	}

	webjson.OK(w, statsPayload{
		TotalPosts:       st.Total,
		ActiveListings:   st.Open,
		ItemsReturned:    st.Resolved,
		CommunityMembers: members,
	})
}
