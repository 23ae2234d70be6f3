package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bruinplace/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	// UpsertFromIdentity creates the user on first login and refreshes
	// email, name, picture, and last_login on subsequent logins.
	UpsertFromIdentity(ctx context.Context, user *model.User) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID finds a user by their identity-provider subject id.
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists changes to an existing user.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpsertFromIdentity implements JIT provisioning keyed on the subject id.
func (r *userRepository) UpsertFromIdentity(ctx context.Context, user *model.User) (*model.User, error) {
	var existing model.User
	err := r.db.WithContext(ctx).Where("id = ?", user.ID).First(&existing).Error
	if err == nil {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.Picture = user.Picture
		existing.LastLogin = time.Now()
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user.LastLogin = time.Now()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
