package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bako110/backend/internal/domain"
)

// ProfileStore persists the companion profile documents in MongoDB. Profile
// writes are never part of the account transaction; callers treat failures
// as logged, non-fatal gaps.
type ProfileStore struct {
	profiles *mongo.Collection
}

// NewProfileStore creates a profile store over the given mongo database
func NewProfileStore(db *mongo.Database) *ProfileStore {
	return &ProfileStore{
		profiles: db.Collection("profiles"),
	}
}

// CreateProfile inserts the profile document for a freshly created account
func (s *ProfileStore) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	if _, err := s.profiles.InsertOne(ctx, profile); err != nil {
		return &domain.UpstreamError{Message: "failed to create profile document", Err: err}
	}
	return nil
}

// FindByUserID retrieves the profile document for an account
func (s *ProfileStore) FindByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	var profile domain.Profile
	err := s.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Message: "profile not found"}
		}
		return nil, &domain.UpstreamError{Message: "failed to get profile document", Err: err}
	}
	return &profile, nil
}
