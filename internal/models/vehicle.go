package models

import (
	"time"
)

// Vehicle представляет автомобиль водителя. У водителя может быть только один
// автомобиль (уникальный индекс по driver_id).
type Vehicle struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	DriverID    uint      `json:"driver_id" gorm:"uniqueIndex;not null"`
	Make        string    `json:"make" gorm:"not null"`
	Model       string    `json:"model" gorm:"not null"`
	Year        int       `json:"year"`
	Color       string    `json:"color" gorm:"not null"`
	PlateNumber string    `json:"plate_number" gorm:"unique;not null;type:varchar(20)"`
	Description string    `json:"description" gorm:"default:''"`
	Seats       int       `json:"seats" gorm:"not null"`
	Avatar      string    `json:"avatar" gorm:"default:''"`
	Available   bool      `json:"available" gorm:"default:true"`
	Location    string    `json:"location" gorm:"default:''"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Driver      User      `json:"-" gorm:"foreignKey:DriverID"`
}

type VehicleResponse struct {
	ID          uint      `json:"id"`
	DriverID    uint      `json:"driver_id"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year,omitempty"`
	Color       string    `json:"color"`
	PlateNumber string    `json:"plate_number"`
	Description string    `json:"description,omitempty"`
	Seats       int       `json:"seats"`
	Avatar      string    `json:"avatar,omitempty"`
	Available   bool      `json:"available"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (v *Vehicle) ToResponse() VehicleResponse {
	return VehicleResponse{
		ID:          v.ID,
		DriverID:    v.DriverID,
		Make:        v.Make,
		Model:       v.Model,
		Year:        v.Year,
		Color:       v.Color,
		PlateNumber: v.PlateNumber,
		Description: v.Description,
		Seats:       v.Seats,
		Avatar:      v.Avatar,
		Available:   v.Available,
		Location:    v.Location,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
