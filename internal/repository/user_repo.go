package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rideshare-backend/internal/models"
)

var ErrNotFound = errors.New("запись не найдена")

// UserRepo — справочник пользователей поверх gorm
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
