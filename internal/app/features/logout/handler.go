// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/campusfind/campusfind/internal/app/system/auth"
	"github.com/campusfind/campusfind/internal/app/system/webjson"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// HandleLogout handles POST /api/auth/logout.
// Clearing an already-empty session is fine, so this never fails the
// client; a save error is logged and the success envelope still goes out.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("failed to clear session during logout", zap.Error(err))
	}
	webjson.OK(w, map[string]string{"message": "signed out"})
}
