// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/campusfind/campusfind/internal/app/store/users"
	"github.com/campusfind/campusfind/internal/app/system/auth"
	"github.com/campusfind/campusfind/internal/app/system/inputval"
	"github.com/campusfind/campusfind/internal/app/system/normalize"
	"github.com/campusfind/campusfind/internal/app/system/ratelimit"
	"github.com/campusfind/campusfind/internal/app/system/timeouts"
	"github.com/campusfind/campusfind/internal/app/system/webjson"
)

// Handler serves password-based sign-up and sign-in.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(users *userstore.Store, sm *auth.SessionManager, limiter *ratelimit.LoginLimiter, log *zap.Logger) *Handler {
	return &Handler{Users: users, SessionMgr: sm, Limiter: limiter, Log: log}
}

type registerInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required,min=8,max=128" label:"Password"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type sessionPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleRegister creates a password account and signs the user in.
// POST /api/auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Fail(w, webjson.CodeValidationFailed, "invalid JSON body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		webjson.FailWithDetails(w, webjson.CodeValidationFailed, result.First(), result.Details())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		webjson.Internal(w, h.Log, "hash password", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register user")
	defer cancel()

	u, err := h.Users.CreateWithPassword(ctx, in.Name, in.Email, string(hash))
	if err == userstore.ErrDuplicateEmail {
		webjson.Fail(w, webjson.CodeConflict, "an account with this email already exists")
		return
	}
	if err != nil {
		webjson.Internal(w, h.Log, "create user", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email}); err != nil {
		webjson.Internal(w, h.Log, "start session", err)
		return
	}

	h.Log.Info("user registered", zap.String("email", u.Email))
	webjson.Created(w, sessionPayload{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email})
}

// HandleLogin verifies credentials and starts a session.
// POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Fail(w, webjson.CodeValidationFailed, "invalid JSON body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		webjson.FailWithDetails(w, webjson.CodeValidationFailed, result.First(), result.Details())
		return
	}

	if allowed, reason := h.Limiter.Check(r, in.Email); !allowed {
		webjson.Fail(w, webjson.CodeUnauthorized, reason)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login lookup")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if err == mongo.ErrNoDocuments {
		// Same message as a wrong password so the endpoint does not
		// leak which emails have accounts.
		webjson.Fail(w, webjson.CodeUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		webjson.Internal(w, h.Log, "login lookup", err)
		return
	}
	if u.PasswordHash == nil {
		webjson.Fail(w, webjson.CodeUnauthorized, "this account signs in with Google")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(in.Password)) != nil {
		webjson.Fail(w, webjson.CodeUnauthorized, "invalid email or password")
		return
	}

	h.Limiter.ResetEmail(in.Email)

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email}); err != nil {
		webjson.Internal(w, h.Log, "start session", err)
		return
	}

	h.Log.Info("user signed in", zap.String("email", normalize.Email(in.Email)))
	webjson.OK(w, sessionPayload{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email})
}
