package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusfind/campusfind/internal/app/system/rollnum"
	"github.com/campusfind/campusfind/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a test user and returns it with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("insert test user: %v", err)
	}
	return u
}

// CreateUserWithRoll inserts a test user who has completed onboarding
// with the given roll number.
func (f *Fixtures) CreateUserWithRoll(ctx context.Context, fullName, email, roll string) models.User {
	f.t.Helper()

	normalized := rollnum.Normalize(roll)
	display := rollnum.Format(normalized)
	phone := "03001234567"

	now := time.Now().UTC()
	u := models.User{
		ID:                   primitive.NewObjectID(),
		FullName:             fullName,
		Email:                email,
		RollNumber:           &display,
		NormalizedRollNumber: &normalized,
		Phone:                &phone,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("insert test user: %v", err)
	}
	return u
}

// CreatePost inserts an OPEN post with sensible defaults and returns it.
// createdAt staggers feed-ordering tests; pass time.Time{} for "now".
func (f *Fixtures) CreatePost(ctx context.Context, userID primitive.ObjectID, postType, title string, createdAt time.Time) models.Post {
	f.t.Helper()

	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	p := models.Post{
		ID:           primitive.NewObjectID(),
		Type:         postType,
		Status:       models.StatusOpen,
		Title:        title,
		Description:  "A test item description long enough to pass validation.",
		Category:     "accessories",
		Location:     "Main building",
		ContactEmail: "poster@campus.edu",
		UserID:       userID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if _, err := f.db.Collection("posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("insert test post: %v", err)
	}
	return p
}
