package mocks

import (
	"context"

	"github.com/bako110/backend/internal/domain"
)

// MockUserRepository is a mock implementation of IUserRepository
type MockUserRepository struct {
	CreateFunc           func(ctx context.Context, user *domain.User) error
	FindByIdentifierFunc func(ctx context.Context, identifier string) (*domain.User, error)
	FindByEmailFunc      func(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordFunc   func(ctx context.Context, userID int64, passwordHash string) error
	ExistsEmailFunc      func(ctx context.Context, email string) (bool, error)
	ExistsPhoneFunc      func(ctx context.Context, phone string) (bool, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if m.FindByIdentifierFunc != nil {
		return m.FindByIdentifierFunc(ctx, identifier)
	}
	return nil, &domain.NotFoundError{Message: "user not found"}
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, &domain.NotFoundError{Message: "user not found"}
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsEmailFunc != nil {
		return m.ExistsEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepository) ExistsPhone(ctx context.Context, phone string) (bool, error) {
	if m.ExistsPhoneFunc != nil {
		return m.ExistsPhoneFunc(ctx, phone)
	}
	return false, nil
}

// MockProfileStore is a mock implementation of IProfileStore
type MockProfileStore struct {
	CreateProfileFunc func(ctx context.Context, profile *domain.Profile) error
	FindByUserIDFunc  func(ctx context.Context, userID int64) (*domain.Profile, error)
}

func (m *MockProfileStore) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	if m.CreateProfileFunc != nil {
		return m.CreateProfileFunc(ctx, profile)
	}
	return nil
}

func (m *MockProfileStore) FindByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, &domain.NotFoundError{Message: "profile not found"}
}
