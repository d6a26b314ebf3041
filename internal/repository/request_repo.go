package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rideshare-backend/internal/models"
)

// RequestRepo — журнал запросов пассажиров
type RequestRepo struct {
	db *gorm.DB
}

func NewRequestRepo(db *gorm.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

func (r *RequestRepo) Create(ctx context.Context, request *models.PassengerRide) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *RequestRepo) FindByID(ctx context.Context, id uint) (*models.PassengerRide, error) {
	var request models.PassengerRide
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// UpdateStatus выполняет compare-and-swap статуса: обновление проходит
// только из ожидаемого текущего статуса. Проигравший гонку вызов получает
// false и не перезаписывает результат победителя.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id uint, from, to models.RideRequestStatus, reason string) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if reason != "" {
		updates["cancel_reason"] = reason
	}
	result := r.db.WithContext(ctx).Model(&models.PassengerRide{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
