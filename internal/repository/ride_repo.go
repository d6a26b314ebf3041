package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rideshare-backend/internal/models"
)

// RideRepo — журнал поездок водителей
type RideRepo struct {
	db *gorm.DB
}

func NewRideRepo(db *gorm.DB) *RideRepo {
	return &RideRepo{db: db}
}

func (r *RideRepo) FindByID(ctx context.Context, id uint) (*models.DriverRide, error) {
	var ride models.DriverRide
	if err := r.db.WithContext(ctx).First(&ride, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ride, nil
}

// ReserveSeats атомарно резервирует seats мест: обновление проходит только
// если после него booked_seats не превышает seats_available. Возвращает
// false, если свободных мест не хватает.
func (r *RideRepo) ReserveSeats(ctx context.Context, rideID uint, seats int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.DriverRide{}).
		Where("id = ? AND booked_seats + ? <= seats_available", rideID, seats).
		Updates(map[string]interface{}{
			"booked_seats": gorm.Expr("booked_seats + ?", seats),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseSeats возвращает ранее зарезервированные места (компенсация при
// проигранной гонке на смене статуса)
func (r *RideRepo) ReleaseSeats(ctx context.Context, rideID uint, seats int) error {
	return r.db.WithContext(ctx).Model(&models.DriverRide{}).
		Where("id = ? AND booked_seats >= ?", rideID, seats).
		Updates(map[string]interface{}{
			"booked_seats": gorm.Expr("booked_seats - ?", seats),
			"updated_at":   time.Now(),
		}).Error
}

// AppendPassenger добавляет одну запись состава поездки
func (r *RideRepo) AppendPassenger(ctx context.Context, rideID, requestID, passengerID uint) error {
	entry := models.RidePassenger{
		RideID:      rideID,
		RequestID:   requestID,
		PassengerID: passengerID,
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

// RosterSize возвращает количество записей состава поездки
func (r *RideRepo) RosterSize(ctx context.Context, rideID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RidePassenger{}).
		Where("ride_id = ?", rideID).
		Count(&count).Error
	return count, err
}
