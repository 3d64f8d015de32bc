// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	userstore "github.com/campusfind/campusfind/internal/app/store/users"
	"github.com/campusfind/campusfind/internal/app/system/auth"
	"github.com/campusfind/campusfind/internal/app/system/inputval"
	"github.com/campusfind/campusfind/internal/app/system/mailer"
	"github.com/campusfind/campusfind/internal/app/system/timeouts"
	"github.com/campusfind/campusfind/internal/app/system/webjson"
)

// Sender delivers the welcome email. Implemented by mailer.Mailer.
type Sender interface {
	Send(ctx context.Context, e mailer.Email) error
}

// Handler serves profile onboarding: the completion check after
// sign-in and the roll number registration itself.
type Handler struct {
	Users    *userstore.Store
	Mail     Sender
	Log      *zap.Logger
	SiteName string
	SiteURL  string
}

func NewHandler(users *userstore.Store, mail Sender, siteName, siteURL string, log *zap.Logger) *Handler {
	return &Handler{Users: users, Mail: mail, Log: log, SiteName: siteName, SiteURL: siteURL}
}

type profilePayload struct {
	HasCompletedOnboarding bool   `json:"hasCompletedOnboarding"`
	RollNumber             string `json:"rollNumber,omitempty"`
	Phone                  string `json:"phone,omitempty"`
}

// HandleCheckProfile reports whether the signed-in user has finished
// onboarding, which means a roll number on file.
// GET /api/user/check-profile
func (h *Handler) HandleCheckProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "check profile")
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		webjson.Internal(w, h.Log, "load profile", err)
		return
	}

	payload := profilePayload{
		HasCompletedOnboarding: u.HasCompletedOnboarding(),
	}
	if u.RollNumber != nil {
		payload.RollNumber = *u.RollNumber
	}
	if u.Phone != nil {
		payload.Phone = *u.Phone
	}
	webjson.OK(w, payload)
}

type updateInput struct {
	FullName   string `json:"fullName" validate:"omitempty,min=2,max=100" label:"Name"`
	RollNumber string `json:"rollNumber" validate:"required,min=5,max=30" label:"Roll number"`
	Phone      string `json:"phone" validate:"omitempty,phonedigits" label:"Phone"`
}

// HandleUpdateProfile registers the user's roll number and phone. The
// welcome email goes out fire and forget once the update lands.
// POST /api/user/update-profile
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		webjson.Fail(w, webjson.CodeUnauthorized, "sign in required")
		return
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		webjson.Fail(w, webjson.CodeUnauthorized, "invalid session")
		return
	}

	var in updateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Fail(w, webjson.CodeValidationFailed, "invalid JSON body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		webjson.FailWithDetails(w, webjson.CodeValidationFailed, result.First(), result.Details())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update profile")
	defer cancel()

	err = h.Users.UpdateProfile(ctx, userID, userstore.ProfileUpdate{
		FullName:   in.FullName,
		RollNumber: in.RollNumber,
		Phone:      in.Phone,
	})
	switch err {
	case nil:
	case userstore.ErrInvalidRollNumber:
		webjson.FailWithDetails(w, webjson.CodeValidationFailed, err.Error(),
			map[string]string{"RollNumber": err.Error()})
		return
	case userstore.ErrRollNumberTaken:
		webjson.Fail(w, webjson.CodeConflict, err.Error())
		return
	default:
		webjson.Internal(w, h.Log, "update profile", err)
		return
	}

	go h.sendWelcome(user.Email, user.Name, in.RollNumber)

	h.Log.Info("profile completed",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))
	webjson.OK(w, map[string]string{"message": "profile updated"})
}

// sendWelcome delivers the welcome email on its own timeout; the update
// response never waits on SMTP.
func (h *Handler) sendWelcome(to, name, rollNumber string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	email := mailer.BuildWelcomeEmail(mailer.WelcomeData{
		SiteName:   h.SiteName,
		SiteURL:    h.SiteURL,
		UserName:   name,
		RollNumber: rollNumber,
	})
	email.To = to

	if err := h.Mail.Send(ctx, email); err != nil {
		h.Log.Error("welcome email failed", zap.String("to", to), zap.Error(err))
	}
}

func callerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		webjson.Fail(w, webjson.CodeUnauthorized, "sign in required")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		webjson.Fail(w, webjson.CodeUnauthorized, "invalid session")
		return primitive.NilObjectID, false
	}
	return id, true
}
