package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusfind/campusfind/internal/app/system/normalize"
	"github.com/campusfind/campusfind/internal/app/system/rollnum"
	"github.com/campusfind/campusfind/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	// ErrRollNumberTaken is returned when a roll number is already
	// registered to a different account.
	ErrRollNumberTaken = errors.New("this roll number is already registered to another account")

	// ErrInvalidRollNumber is returned when a submitted roll number
	// fails the plausibility check.
	ErrInvalidRollNumber = errors.New("roll number must contain letters and digits")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByNormalizedRoll resolves a normalized roll number to its
// registered owner. Returns (nil, nil) when no account claims it,
// which is the common case for found ID cards.
func (s *Store) FindByNormalizedRoll(ctx context.Context, normalized string) (*models.User, error) {
	if normalized == "" {
		return nil, nil
	}
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"normalized_roll_number": normalized}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Count returns the number of registered accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CreateWithPassword inserts a new password-based account.
func (s *Store) CreateWithPassword(ctx context.Context, fullName, email, passwordHash string) (models.User, error) {
	now := time.Now()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     normalize.Name(fullName),
		Email:        normalize.Email(email),
		PasswordHash: &passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpsertGoogleUser links a Google identity to an account, creating one
// on first sign-in. An existing account with the same email is claimed
// by setting its google_id.
func (s *Store) UpsertGoogleUser(ctx context.Context, googleID, email, fullName string) (models.User, error) {
	email = normalize.Email(email)

	var u models.User
	err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&u)
	if err == nil {
		return u, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, err
	}

	// First sign-in with this Google account. Claim a matching email
	// account if one exists, otherwise create a fresh user.
	after := options.After
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"google_id":  googleID,
			"updated_at": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&u)
	if err == nil {
		return u, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, err
	}

	now := time.Now()
	u = models.User{
		ID:        primitive.NewObjectID(),
		FullName:  normalize.Name(fullName),
		Email:     email,
		GoogleID:  &googleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a race with a concurrent sign-in for the same email;
			// the winner's document is the account.
			return *mustGet(s, ctx, email), nil
		}
		return models.User{}, err
	}
	return u, nil
}

func mustGet(s *Store, ctx context.Context, email string) *models.User {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return &models.User{}
	}
	return u
}

// ProfileUpdate holds the onboarding fields a user fills in after
// first sign-in.
type ProfileUpdate struct {
	FullName   string
	RollNumber string
	Phone      string
}

// UpdateProfile stores the user's roll number and phone. The roll
// number is normalized for matching; the unique sparse index on
// normalized_roll_number is the final arbiter against two accounts
// claiming the same roll, so a lost race still surfaces as
// ErrRollNumberTaken rather than a silent double claim.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	normalized := rollnum.Normalize(upd.RollNumber)
	if !rollnum.IsValid(normalized) {
		return ErrInvalidRollNumber
	}

	// Pre-check for a friendlier error before hitting the index.
	existing, err := s.FindByNormalizedRoll(ctx, normalized)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return ErrRollNumberTaken
	}

	set := bson.M{
		"roll_number":            rollnum.Format(normalized),
		"normalized_roll_number": normalized,
		"phone":                  normalize.PhoneDigits(upd.Phone),
		"updated_at":             time.Now(),
	}
	if upd.FullName != "" {
		set["full_name"] = normalize.Name(upd.FullName)
	}

	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrRollNumberTaken
		}
		return err
	}
	return nil
}
