// internal/app/store/posts/query.go
package poststore

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusfind/campusfind/internal/app/system/normalize"
	"github.com/campusfind/campusfind/internal/app/system/rollnum"
	"github.com/campusfind/campusfind/internal/domain/models"
)

// FeedFilter holds the caller-controlled feed parameters. The feed
// itself only ever shows OPEN posts; resolved items drop out of every
// listing.
type FeedFilter struct {
	Type   string // "", "LOST", or "FOUND" (normalized in BuildQuery)
	Search string // free-text search term
}

// BuildQuery translates a FeedFilter into the Mongo filter document.
//
// A search term matches a post when any of these hold:
//   - case-insensitive substring of title, description, student name,
//     or the displayed roll number
//   - its normalized form equals the post's normalized roll number
//   - it appears verbatim among the post's AI tags
func (f FeedFilter) BuildQuery() bson.M {
	query := bson.M{"status": models.StatusOpen}

	if t := normalize.ItemType(f.Type); t == models.TypeLost || t == models.TypeFound {
		query["type"] = t
	}

	if f.Search != "" {
		substr := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		or := []bson.M{
			{"title": substr},
			{"description": substr},
			{"student_name": substr},
			{"roll_number": substr},
		}
		if normalized := rollnum.Normalize(f.Search); normalized != "" {
			or = append(or, bson.M{"normalized_roll_number": normalized})
		}
		or = append(or, bson.M{"ai_tags": f.Search})
		query["$or"] = or
	}

	return query
}

// feedSort orders the feed newest first. The _id tiebreak keeps pages
// stable when posts share a created_at timestamp, so paginating through
// the feed never skips or repeats a post.
func feedSort() bson.D {
	return bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	}
}
