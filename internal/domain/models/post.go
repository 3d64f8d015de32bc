// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post type values.
const (
	TypeLost  = "LOST"
	TypeFound = "FOUND"
)

// Post status values. A post starts OPEN and toggles between OPEN and
// RESOLVED; only the owning user drives the transition.
const (
	StatusOpen     = "OPEN"
	StatusResolved = "RESOLVED"
)

// DocumentCategories are the categories that identify a document-type item.
// A FOUND post in one of these categories with a roll number triggers the
// owner-notification flow.
var DocumentCategories = []string{"id-cards", "documents"}

// Post is one lost/found item report.
//
// RollNumber holds what the reporter typed; NormalizedRollNumber is always
// derived from it via rollnum.Normalize and is the only field used for
// matching. Neither is ever stored without the other.
type Post struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type   string             `bson:"type" json:"type"`     // LOST | FOUND
	Status string             `bson:"status" json:"status"` // OPEN | RESOLVED

	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Category    string `bson:"category" json:"category"`
	Location    string `bson:"location" json:"location"`
	ImageURL    string `bson:"image_url,omitempty" json:"imageUrl,omitempty"`

	// Optional owner details for ID-card/document reports.
	StudentName          string `bson:"student_name,omitempty" json:"studentName,omitempty"`
	RollNumber           string `bson:"roll_number,omitempty" json:"rollNumber,omitempty"`
	NormalizedRollNumber string `bson:"normalized_roll_number,omitempty" json:"-"`

	ContactEmail string `bson:"contact_email,omitempty" json:"contactEmail,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`

	// EventDate is the reporter-supplied date/time of the loss or find.
	// Free text, never parsed.
	EventDate string `bson:"event_date,omitempty" json:"date,omitempty"`

	AITags []string `bson:"ai_tags,omitempty" json:"aiTags,omitempty"`

	UserID primitive.ObjectID `bson:"user_id" json:"userId"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsDocumentCategory reports whether the post's category can carry an
// identifying roll number.
func (p *Post) IsDocumentCategory() bool {
	for _, c := range DocumentCategories {
		if p.Category == c {
			return true
		}
	}
	return false
}
