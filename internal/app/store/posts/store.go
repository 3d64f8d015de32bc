// internal/app/store/posts/store.go
package poststore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusfind/campusfind/internal/app/system/paging"
	"github.com/campusfind/campusfind/internal/domain/models"
)

var (
	// ErrNotFound is returned when the post does not exist.
	ErrNotFound = errors.New("post not found")

	// ErrNotOwner is returned when a caller tries to change a post
	// they did not create.
	ErrNotOwner = errors.New("post belongs to another user")

	// ErrInvalidTransition is returned when a lifecycle change is not
	// allowed from the post's current status.
	ErrInvalidTransition = errors.New("post is not in a state that allows this change")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create inserts a new post. New posts always start OPEN.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = primitive.NewObjectID()
	p.Status = models.StatusOpen

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// GetByID loads a post by ObjectID. Returns ErrNotFound when missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Feed returns one page of OPEN posts matching the filter, newest
// first, along with the total match count.
func (s *Store) Feed(ctx context.Context, filter FeedFilter, page paging.Params) ([]models.Post, int64, error) {
	query := filter.BuildQuery()

	total, err := s.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(feedSort()).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListByUser returns every post the user created, newest first,
// regardless of status.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(feedSort())
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Resolve marks an owner's post RESOLVED. Resolving an already
// resolved post is a no-op, so double-clicks and retries are harmless.
func (s *Store) Resolve(ctx context.Context, postID, ownerID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID, "user_id": ownerID},
		bson.M{"$set": bson.M{"status": models.StatusResolved, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.explainMiss(ctx, postID, ownerID)
	}
	return nil
}

// Reopen returns an owner's RESOLVED post to the feed. Reopening a
// post that is already OPEN is an invalid transition, not a no-op:
// the client is acting on stale state and should refresh.
func (s *Store) Reopen(ctx context.Context, postID, ownerID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID, "user_id": ownerID, "status": models.StatusResolved},
		bson.M{"$set": bson.M{"status": models.StatusOpen, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := s.explainMiss(ctx, postID, ownerID); err != nil {
			return err
		}
		// Post exists and is owned by the caller, so the status filter
		// is what kept the update from matching.
		return ErrInvalidTransition
	}
	return nil
}

// Delete removes an owner's post entirely.
func (s *Store) Delete(ctx context.Context, postID, ownerID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": postID, "user_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return s.explainMiss(ctx, postID, ownerID)
	}
	return nil
}

// explainMiss distinguishes "no such post" from "not your post" after
// an owner-scoped write matched nothing.
func (s *Store) explainMiss(ctx context.Context, postID, ownerID primitive.ObjectID) error {
	p, err := s.GetByID(ctx, postID)
	if err != nil {
		return err // ErrNotFound or a real DB error
	}
	if p.UserID != ownerID {
		return ErrNotOwner
	}
	return nil
}

// Stats holds the post counters for the public landing page.
type Stats struct {
	Total    int64
	Open     int64
	Resolved int64
}

// GetStats counts all posts, active (OPEN) listings, and resolved items.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.Total, err = s.c.CountDocuments(ctx, bson.M{}); err != nil {
		return Stats{}, err
	}
	if st.Open, err = s.c.CountDocuments(ctx, bson.M{"status": models.StatusOpen}); err != nil {
		return Stats{}, err
	}
	if st.Resolved, err = s.c.CountDocuments(ctx, bson.M{"status": models.StatusResolved}); err != nil {
		return Stats{}, err
	}
	return st, nil
}
