package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bako110/backend/internal/domain"
)

// UserRepository handles user-related database operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Returns a ConflictError when the email or phone
// is already taken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Email != nil {
		exists, err := r.ExistsEmail(ctx, *user.Email)
		if err != nil {
			return err
		}
		if exists {
			return &domain.ConflictError{Message: "email already registered"}
		}
	}
	if user.Phone != nil {
		exists, err := r.ExistsPhone(ctx, *user.Phone)
		if err != nil {
			return err
		}
		if exists {
			return &domain.ConflictError{Message: "phone already registered"}
		}
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// Concurrent insert can still trip the unique index after the
		// pre-check passed.
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return &domain.ConflictError{Message: "identifier already registered"}
		}
		return &domain.InternalError{Message: "failed to create user", Err: err}
	}
	return nil
}

// FindByIdentifier retrieves a user by email or phone, exact match, email
// tried first.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", identifier).
		First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.InternalError{Message: "failed to get user", Err: err}
	}

	err = r.db.WithContext(ctx).
		Where("phone = ?", identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Message: "user not found"}
		}
		return nil, &domain.InternalError{Message: "failed to get user", Err: err}
	}
	return &user, nil
}

// FindByEmail retrieves a user by email only
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Message: "user not found"}
		}
		return nil, &domain.InternalError{Message: "failed to get user", Err: err}
	}
	return &user, nil
}

// UpdatePassword replaces the user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
	if err != nil {
		return &domain.InternalError{Message: "failed to update password", Err: err}
	}
	return nil
}

// ExistsEmail checks if an email already exists
func (r *UserRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, &domain.InternalError{Message: "failed to check email", Err: err}
	}
	return count > 0, nil
}

// ExistsPhone checks if a phone number already exists
func (r *UserRepository) ExistsPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("phone = ?", phone).
		Count(&count).Error
	if err != nil {
		return false, &domain.InternalError{Message: "failed to check phone", Err: err}
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
