package posts_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campusfind/campusfind/internal/app/features/posts"
	poststore "github.com/campusfind/campusfind/internal/app/store/posts"
	userstore "github.com/campusfind/campusfind/internal/app/store/users"
	"github.com/campusfind/campusfind/internal/app/system/aitags"
	"github.com/campusfind/campusfind/internal/app/system/auth"
	"github.com/campusfind/campusfind/internal/app/system/feedcache"
	"github.com/campusfind/campusfind/internal/app/system/imagestore"
	"github.com/campusfind/campusfind/internal/app/system/mailer"
	"github.com/campusfind/campusfind/internal/app/system/notify"
	"github.com/campusfind/campusfind/internal/app/system/paging"
	"github.com/campusfind/campusfind/internal/domain/models"
	"github.com/campusfind/campusfind/internal/testutil"
)

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type feedEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Posts []models.Post `json:"posts"`
		Meta  struct {
			Page    int   `json:"page"`
			Limit   int   `json:"limit"`
			Total   int64 `json:"total"`
			HasMore bool  `json:"hasMore"`
		} `json:"meta"`
	} `json:"data"`
}

func newTestHandler(t *testing.T, db *mongo.Database) *posts.Handler {
	t.Helper()
	logger := zap.NewNop()

	users := userstore.New(db)
	sender := mailer.New(mailer.Config{}, logger) // disabled, logs instead of sending
	notifier := notify.NewWorker(users, sender, logger, "CampusFind", "http://localhost:8080", 8)

	return posts.NewHandler(
		poststore.New(db),
		imagestore.New(imagestore.Config{}, logger), // disabled
		aitags.New(aitags.Config{}, logger),         // disabled
		feedcache.New(nil, time.Minute, logger),     // disabled
		notifier,
		logger,
	)
}

func signedIn(r *http.Request, id primitive.ObjectID) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{ID: id.Hex(), Name: "Test User", Email: "user@campus.edu"})
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s) failed: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart close failed: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func validCreateFields() map[string]string {
	return map[string]string{
		"type":        "FOUND",
		"title":       "Blue student ID card",
		"description": "Found a blue ID card near the main library entrance.",
		"category":    "id-cards",
		"location":    "Main Library",
		"email":       "finder@campus.edu",
		"studentName": "Ahmed Khan",
		"rollNumber":  "BSCS-21F-0042",
		"date":        "2026-03-14",
	}
}

func TestHandleCreate_Unauthorized(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	body, ctype := multipartBody(t, validCreateFields())
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleCreate_StoresNormalizedRoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	userID := primitive.NewObjectID()

	body, ctype := multipartBody(t, validCreateFields())
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, signedIn(req, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var env struct {
		Data models.Post `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	created := env.Data
	if created.Status != models.StatusOpen {
		t.Errorf("status = %q, want OPEN", created.Status)
	}
	if created.UserID != userID {
		t.Errorf("user_id = %s, want caller", created.UserID.Hex())
	}
	if created.RollNumber != "BSCS-21F-0042" {
		t.Errorf("roll_number = %q, want the raw input", created.RollNumber)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stored, err := poststore.New(db).GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.NormalizedRollNumber != "bscs21f0042" {
		t.Errorf("normalized_roll_number = %q, want bscs21f0042", stored.NormalizedRollNumber)
	}
}

func TestHandleCreate_SanitizesUserText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	fields := validCreateFields()
	fields["title"] = `<script>alert(1)</script>Black wallet`
	fields["description"] = "Found a <b>black wallet</b> in the cafeteria yesterday."
	body, ctype := multipartBody(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, signedIn(req, primitive.NewObjectID()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data models.Post `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if strings.Contains(env.Data.Title, "<script>") {
		t.Errorf("title kept markup: %q", env.Data.Title)
	}
	if env.Data.Description != "Found a black wallet in the cafeteria yesterday." {
		t.Errorf("description = %q", env.Data.Description)
	}
}

func TestHandleCreate_ValidationDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	fields := validCreateFields()
	fields["title"] = "ab"
	fields["email"] = "not-an-email"
	body, ctype := multipartBody(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, signedIn(req, primitive.NewObjectID()))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Error.Code != "VALIDATION_FAILED" {
		t.Errorf("code = %q", env.Error.Code)
	}
	if env.Error.Details["Title"] == "" || env.Error.Details["Email"] == "" {
		t.Errorf("details = %v, want messages for Title and Email", env.Error.Details)
	}
}

func TestHandleCreate_ImageUploadFailureAborts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "provider down", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	users := userstore.New(db)
	h := posts.NewHandler(
		poststore.New(db),
		imagestore.New(imagestore.Config{CloudName: "demo", UploadPreset: "unsigned", BaseURL: upstream.URL}, logger),
		aitags.New(aitags.Config{}, logger),
		feedcache.New(nil, time.Minute, logger),
		notify.NewWorker(users, mailer.New(mailer.Config{}, logger), logger, "CampusFind", "http://localhost:8080", 8),
		logger,
	)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range validCreateFields() {
		_ = w.WriteField(k, v)
	}
	part, err := w.CreateFormFile("image", "card.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	part.Write([]byte("not a real image, upload fails before decode matters"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, signedIn(req, primitive.NewObjectID()))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadGateway, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, total, err := poststore.New(db).Feed(ctx, poststore.FeedFilter{}, paging.Params{Page: 1, Limit: paging.DefaultLimit})
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if total != 0 {
		t.Errorf("post was created despite the upload failure")
	}
}

func TestHandleFeed_PagesOpenPosts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		f.CreatePost(ctx, owner, models.TypeLost, "item", base.Add(time.Duration(i)*time.Minute))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/posts?page=1&limit=12", nil)
	rec := httptest.NewRecorder()
	h.HandleFeed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var env feedEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(env.Data.Posts) != 12 {
		t.Errorf("page size = %d, want 12", len(env.Data.Posts))
	}
	if env.Data.Meta.Total != 15 || !env.Data.Meta.HasMore {
		t.Errorf("meta = %+v, want total 15 hasMore true", env.Data.Meta)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	req := testutil.WithChiURLParam(
		httptest.NewRequest(http.MethodGet, "/api/posts/"+primitive.NewObjectID().Hex(), nil),
		"id", primitive.NewObjectID().Hex())
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleMyPosts_Unauthorized(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	rec := httptest.NewRecorder()
	h.HandleMyPosts(rec, httptest.NewRequest(http.MethodGet, "/api/user/my-posts", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func lifecycleRequest(t *testing.T, target string, postID primitive.ObjectID, caller primitive.ObjectID) *http.Request {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"postId": postID.Hex()})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return signedIn(req, caller)
}

func TestHandleResolve_NonOwnerForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	p := f.CreatePost(ctx, owner, models.TypeLost, "wallet", time.Time{})

	rec := httptest.NewRecorder()
	h.HandleResolve(rec, lifecycleRequest(t, "/api/user/resolve-post", p.ID, primitive.NewObjectID()))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusForbidden, rec.Body.String())
	}
}

func TestHandleResolve_OwnerSucceeds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	p := f.CreatePost(ctx, owner, models.TypeLost, "wallet", time.Time{})

	rec := httptest.NewRecorder()
	h.HandleResolve(rec, lifecycleRequest(t, "/api/user/resolve-post", p.ID, owner))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := poststore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Status != models.StatusResolved {
		t.Errorf("status = %q, want RESOLVED", stored.Status)
	}
}

func TestHandleReopen_OpenPostConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	p := f.CreatePost(ctx, owner, models.TypeLost, "wallet", time.Time{})

	rec := httptest.NewRecorder()
	h.HandleReopen(rec, lifecycleRequest(t, "/api/user/reopen-post", p.ID, owner))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Error.Code != "INVALID_TRANSITION" {
		t.Errorf("code = %q, want INVALID_TRANSITION", env.Error.Code)
	}
}

func TestHandleDelete_RemovesPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	p := f.CreatePost(ctx, owner, models.TypeLost, "wallet", time.Time{})

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, lifecycleRequest(t, "/api/user/delete-post", p.ID, owner))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := poststore.New(db).GetByID(ctx, p.ID); err != poststore.ErrNotFound {
		t.Errorf("GetByID err = %v, want ErrNotFound", err)
	}
}

func TestHandleDelete_MissingPostNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, lifecycleRequest(t, "/api/user/delete-post", primitive.NewObjectID(), primitive.NewObjectID()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}
