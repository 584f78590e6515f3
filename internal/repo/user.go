package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/teslo-shop/backend/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

// FindUserForLogin loads a user by email with an explicit projection that
// includes the password hash, which is never serialized outward.
func (r *GormRepo) FindUserForLogin(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Select("id", "email", "password_hash", "full_name", "is_active", "roles").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
