package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rideshare-backend/internal/models"
)

// VehicleRepo — реестр автомобилей: один автомобиль на водителя
type VehicleRepo struct {
	db *gorm.DB
}

func NewVehicleRepo(db *gorm.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

func (r *VehicleRepo) FindByDriver(ctx context.Context, driverID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).Where("driver_id = ?", driverID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}
