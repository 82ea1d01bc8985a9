package repository

import (
	"context"

	"github.com/bako110/backend/internal/domain"
)

// IUserRepository is the Account Directory contract consumed by the
// orchestrator. The store is assumed durable and externally transactional;
// failures surface as opaque storage errors.
type IUserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	ExistsEmail(ctx context.Context, email string) (bool, error)
	ExistsPhone(ctx context.Context, phone string) (bool, error)
}

// IProfileStore is the profile-document collaborator contract
type IProfileStore interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	FindByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
}

// Compile-time checks to ensure structs implement their interfaces
var (
	_ IUserRepository = (*UserRepository)(nil)
	_ IProfileStore   = (*ProfileStore)(nil)
)
