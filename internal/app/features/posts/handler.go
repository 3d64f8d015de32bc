// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	poststore "github.com/campusfind/campusfind/internal/app/store/posts"
	"github.com/campusfind/campusfind/internal/app/system/aitags"
	"github.com/campusfind/campusfind/internal/app/system/auth"
	"github.com/campusfind/campusfind/internal/app/system/feedcache"
	"github.com/campusfind/campusfind/internal/app/system/htmlsanitize"
	"github.com/campusfind/campusfind/internal/app/system/imagestore"
	"github.com/campusfind/campusfind/internal/app/system/inputval"
	"github.com/campusfind/campusfind/internal/app/system/normalize"
	"github.com/campusfind/campusfind/internal/app/system/notify"
	"github.com/campusfind/campusfind/internal/app/system/paging"
	"github.com/campusfind/campusfind/internal/app/system/rollnum"
	"github.com/campusfind/campusfind/internal/app/system/timeouts"
	"github.com/campusfind/campusfind/internal/app/system/webjson"
	"github.com/campusfind/campusfind/internal/domain/models"
)

// maxCreateBody bounds the multipart create request (form fields plus
// one image).
const maxCreateBody = 16 << 20

// Handler serves the item listing board: the public feed, single-post
// reads, and the owner-scoped lifecycle operations.
type Handler struct {
	Posts    *poststore.Store
	Images   *imagestore.Store
	Tags     *aitags.Client
	Cache    *feedcache.Cache
	Notifier *notify.Worker
	Log      *zap.Logger
}

func NewHandler(posts *poststore.Store, images *imagestore.Store, tags *aitags.Client, cache *feedcache.Cache, notifier *notify.Worker, log *zap.Logger) *Handler {
	return &Handler{
		Posts:    posts,
		Images:   images,
		Tags:     tags,
		Cache:    cache,
		Notifier: notifier,
		Log:      log,
	}
}

type createInput struct {
	Type        string `validate:"required,itemtype" label:"Type"`
	Title       string `validate:"required,min=3,max=100" label:"Title"`
	Description string `validate:"required,min=10,max=1000" label:"Description"`
	Category    string `validate:"required" label:"Category"`
	Location    string `validate:"required" label:"Location"`
	Email       string `validate:"required,email" label:"Email"`
	Phone       string `validate:"omitempty,phonedigits" label:"Phone"`

	// Optional owner details for id-card and document reports.
	StudentName string
	RollNumber  string

	Date string
	Time string
}

// feedPayload is the envelope data for one feed page. It is also the
// value cached in Redis, so a cache hit skips both Mongo queries.
type feedPayload struct {
	Posts []models.Post `json:"posts"`
	Meta  paging.Meta   `json:"meta"`
}

// HandleCreate reports a lost or found item.
// POST /api/posts
//
// The image, when present, is uploaded first and a provider failure
// aborts the whole request. AI tagging runs next and is best effort.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	if err := r.ParseMultipartForm(maxCreateBody); err != nil {
		webjson.Fail(w, webjson.CodeValidationFailed, "could not parse form data")
		return
	}

	imageURL, err := h.uploadImage(r)
	if err != nil {
		h.Log.Error("image upload failed", zap.Error(err))
		webjson.Fail(w, webjson.CodeUpstreamFailure, "image upload failed")
		return
	}

	in := createInput{
		Type:        r.FormValue("type"),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    r.FormValue("category"),
		Location:    r.FormValue("location"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		StudentName: r.FormValue("studentName"),
		RollNumber:  r.FormValue("rollNumber"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
	}

	tags := h.Tags.Keywords(r.Context(), in.Title+" "+in.Description)

	if result := inputval.Validate(in); result.HasErrors() {
		webjson.FailWithDetails(w, webjson.CodeValidationFailed, result.First(), result.Details())
		return
	}

	eventDate := in.Date
	if in.Time != "" {
		eventDate = fmt.Sprintf("%s %s", in.Date, in.Time)
	}

	post := models.Post{
		Type:        normalize.ItemType(in.Type),
		Title:       htmlsanitize.StripTags(in.Title),
		Description: htmlsanitize.StripTags(in.Description),
		Category:    normalize.Category(in.Category),
		Location:    htmlsanitize.StripTags(in.Location),
		ImageURL:    imageURL,

		StudentName:          htmlsanitize.StripTags(in.StudentName),
		RollNumber:           strings.TrimSpace(in.RollNumber),
		NormalizedRollNumber: rollnum.Normalize(in.RollNumber),

		ContactEmail: normalize.Email(in.Email),
		Phone:        normalize.PhoneDigits(in.Phone),
		EventDate:    eventDate,
		AITags:       tags,
		UserID:       userID,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create post")
	defer cancel()

	created, err := h.Posts.Create(ctx, post)
	if err != nil {
		webjson.Internal(w, h.Log, "create post", err)
		return
	}

	h.Cache.Invalidate(r.Context())
	h.Notifier.Enqueue(notify.Event{
		PostType:             created.Type,
		Category:             created.Category,
		NormalizedRollNumber: created.NormalizedRollNumber,
		RollNumber:           created.RollNumber,
		Location:             created.Location,
		FinderEmail:          created.ContactEmail,
		FinderPhone:          created.Phone,
	})

	h.Log.Info("post created",
		zap.String("post_id", created.ID.Hex()),
		zap.String("type", created.Type),
		zap.String("category", created.Category))
	webjson.Created(w, created)
}

// uploadImage sends the optional image part to the image provider.
// No image part is fine; a provider error is not.
func (h *Handler) uploadImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	if header.Size == 0 {
		return "", nil
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "image upload")
	defer cancel()
	return h.Images.Upload(ctx, file)
}

// HandleFeed serves the public feed of OPEN posts.
// GET /api/posts?type=lost&q=wallet&page=2&limit=12
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	itemType := r.URL.Query().Get("type")
	search := strings.TrimSpace(r.URL.Query().Get("q"))
	page := paging.Parse(r)

	key := h.Cache.Key(r.Context(), itemType, search, page.Page, page.Limit)
	var payload feedPayload
	if h.Cache.Get(r.Context(), key, &payload) {
		webjson.OK(w, payload)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load feed")
	defer cancel()

	items, total, err := h.Posts.Feed(ctx, poststore.FeedFilter{Type: itemType, Search: search}, page)
	if err != nil {
		webjson.Internal(w, h.Log, "load feed", err)
		return
	}

	payload = feedPayload{Posts: items, Meta: paging.BuildMeta(page, len(items), total)}
	h.Cache.Set(r.Context(), key, payload)
	webjson.OK(w, payload)
}

// HandleGet serves one post by id.
// GET /api/posts/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		webjson.Fail(w, webjson.CodeNotFound, "post not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load post")
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err == poststore.ErrNotFound {
		webjson.Fail(w, webjson.CodeNotFound, "post not found")
		return
	}
	if err != nil {
		webjson.Internal(w, h.Log, "load post", err)
		return
	}
	webjson.OK(w, p)
}

// HandleMyPosts lists every post the signed-in user created, any
// status, newest first.
// GET /api/user/my-posts
func (h *Handler) HandleMyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list my posts")
	defer cancel()

	items, err := h.Posts.ListByUser(ctx, userID)
	if err != nil {
		webjson.Internal(w, h.Log, "list my posts", err)
		return
	}
	webjson.OK(w, map[string]any{"posts": items})
}

type lifecycleInput struct {
	PostID string `json:"postId" validate:"required" label:"Post id"`
}

// HandleResolve marks the caller's post RESOLVED.
// POST /api/user/resolve-post
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "resolve post", h.Posts.Resolve)
}

// HandleReopen returns the caller's RESOLVED post to the feed.
// POST /api/user/reopen-post
func (h *Handler) HandleReopen(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "reopen post", h.Posts.Reopen)
}

// HandleDelete removes the caller's post entirely.
// POST /api/user/delete-post
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "delete post", h.Posts.Delete)
}

// lifecycle runs one owner-scoped mutation and maps the store's
// sentinel errors onto the response taxonomy. The feed cache is
// invalidated once per successful change.
func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, op string, change func(ctx context.Context, postID, ownerID primitive.ObjectID) error) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var in lifecycleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Fail(w, webjson.CodeValidationFailed, "invalid JSON body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		webjson.FailWithDetails(w, webjson.CodeValidationFailed, result.First(), result.Details())
		return
	}
	postID, err := primitive.ObjectIDFromHex(in.PostID)
	if err != nil {
		webjson.Fail(w, webjson.CodeNotFound, "post not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, op)
	defer cancel()

	switch err := change(ctx, postID, userID); err {
	case nil:
	case poststore.ErrNotFound:
		webjson.Fail(w, webjson.CodeNotFound, "post not found")
		return
	case poststore.ErrNotOwner:
		webjson.Fail(w, webjson.CodeForbidden, "you can only change your own posts")
		return
	case poststore.ErrInvalidTransition:
		webjson.Fail(w, webjson.CodeInvalidTransition, "post is not in a state that allows this change")
		return
	default:
		webjson.Internal(w, h.Log, op, err)
		return
	}

	h.Cache.Invalidate(r.Context())
	h.Log.Info(op, zap.String("post_id", in.PostID), zap.String("user_id", userID.Hex()))
	webjson.OK(w, map[string]string{"postId": in.PostID})
}

// callerID extracts the signed-in user's ObjectID or writes the 401
// envelope.
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
