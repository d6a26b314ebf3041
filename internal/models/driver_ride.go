package models

import (
	"time"
)

// DriverRide представляет опубликованное водителем предложение поездки.
// BookedSeats поддерживается движком подбора: принятые запросы резервируют
// места атомарным условным обновлением.
type DriverRide struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	DriverID        uint            `json:"driver_id" gorm:"not null;index"`
	VehicleID       uint            `json:"vehicle_id" gorm:"not null"`
	PickupLocation  string          `json:"pickup_location" gorm:"not null;index"`
	DropoffLocation string          `json:"dropoff_location" gorm:"not null"`
	SeatsAvailable  int             `json:"seats_available" gorm:"not null"`
	BookedSeats     int             `json:"booked_seats" gorm:"default:0"`
	Price           float64         `json:"price" gorm:"not null"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Driver          User            `json:"-" gorm:"foreignKey:DriverID"`
	Vehicle         Vehicle         `json:"-" gorm:"foreignKey:VehicleID"`
	Passengers      []RidePassenger `json:"-" gorm:"foreignKey:RideID"`
	Requests        []PassengerRide `json:"-" gorm:"foreignKey:RideID"`
}

// RidePassenger — запись состава поездки: ровно одна строка на принятый
// запрос (уникальный индекс по request_id).
type RidePassenger struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RideID      uint      `json:"ride_id" gorm:"not null;index"`
	RequestID   uint      `json:"request_id" gorm:"uniqueIndex;not null"`
	PassengerID uint      `json:"passenger_id" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

type DriverRideResponse struct {
	ID              uint      `json:"id"`
	DriverID        uint      `json:"driver_id"`
	VehicleID       uint      `json:"vehicle_id"`
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	SeatsAvailable  int       `json:"seats_available"`
	BookedSeats     int       `json:"booked_seats"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	DriverName      string    `json:"driver_name,omitempty"`
}

func (r *DriverRide) ToResponse() DriverRideResponse {
	resp := DriverRideResponse{
		ID:              r.ID,
		DriverID:        r.DriverID,
		VehicleID:       r.VehicleID,
		PickupLocation:  r.PickupLocation,
		DropoffLocation: r.DropoffLocation,
		SeatsAvailable:  r.SeatsAvailable,
		BookedSeats:     r.BookedSeats,
		Price:           r.Price,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Driver.ID != 0 {
		resp.DriverName = r.Driver.FirstName + " " + r.Driver.LastName
	}
	return resp
}

// AvailableRideResponse — публичная карточка поездки для поиска пассажирами
type AvailableRideResponse struct {
	ID             uint             `json:"id"`
	Driver         string           `json:"driver"`
	PickupLocation string           `json:"pickup_location"`
	SeatsAvailable int              `json:"seats_available"`
	BookedSeats    int              `json:"booked_seats"`
	Price          float64          `json:"price"`
	Passengers     []string         `json:"passengers"`
	Vehicle        *VehicleResponse `json:"vehicle,omitempty"`
}
