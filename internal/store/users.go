package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"playgrid/backend/internal/models"
)

// Users is the user store backed by postgres.
type Users struct {
	db *gorm.DB
}

// NewUsers builds the user store over an owned database handle.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new user. A uniqueness collision on email or username
// surfaces as gorm.ErrDuplicatedKey.
func (s *Users) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// FindByID loads a user by primary key.
func (s *Users) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads a user by email, or nil if absent.
func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateName changes the display name, the only mutable user field.
func (s *Users) UpdateName(ctx context.Context, id uint, name string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("name", name).Error
}
