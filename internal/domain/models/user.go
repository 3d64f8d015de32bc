// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account.
//
// RollNumber/NormalizedRollNumber are optional pointers: both are set
// together during onboarding or neither exists. NormalizedRollNumber is
// unique across accounts (sparse unique index, see system/indexes).
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"full_name" json:"name"`
	Email    string             `bson:"email" json:"email"`

	// GoogleID is set for accounts created through Google sign-in.
	GoogleID *string `bson:"google_id,omitempty" json:"-"`

	// PasswordHash is set for password accounts (bcrypt).
	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`

	RollNumber           *string `bson:"roll_number,omitempty" json:"rollNumber,omitempty"`
	NormalizedRollNumber *string `bson:"normalized_roll_number,omitempty" json:"-"`
	Phone                *string `bson:"phone,omitempty" json:"phone,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasCompletedOnboarding reports whether the user has registered a roll
// number, which is what unlocks posting and notification matching.
func (u *User) HasCompletedOnboarding() bool {
	return u.RollNumber != nil && *u.RollNumber != ""
}
