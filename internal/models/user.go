package models

import (
	"time"
)

type UserRole string

const (
	RolePassenger UserRole = "passenger" // Пассажир
	RoleDriver    UserRole = "driver"    // Водитель
	RoleAdmin     UserRole = "admin"     // Администратор
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	FirstName   string    `json:"firstname" gorm:"column:firstname;not null;type:varchar(255)"`
	LastName    string    `json:"lastname" gorm:"column:lastname;not null;type:varchar(255)"`
	Email       string    `json:"email" gorm:"column:email;unique;not null;type:varchar(255)"`
	PhoneNumber string    `json:"phone_number" gorm:"column:phone_number;unique;not null;type:varchar(20)"`
	Password    string    `json:"-" gorm:"column:password;not null;type:varchar(255)"`
	Role        UserRole  `json:"role" gorm:"column:role;default:'passenger';type:varchar(20)"`
	Verified    bool      `json:"verified" gorm:"column:verified;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	Vehicle     *Vehicle  `json:"vehicle,omitempty" gorm:"foreignKey:DriverID"`
}

type UserResponse struct {
	ID          uint             `json:"id"`
	FirstName   string           `json:"firstname"`
	LastName    string           `json:"lastname"`
	Email       string           `json:"email"`
	PhoneNumber string           `json:"phone_number"`
	Role        UserRole         `json:"role"`
	Verified    bool             `json:"verified"`
	CreatedAt   time.Time        `json:"created_at"`
	Vehicle     *VehicleResponse `json:"vehicle,omitempty"`
}

// ToResponse формирует ответ API без пароля
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Verified:    u.Verified,
		CreatedAt:   u.CreatedAt,
	}
	if u.Vehicle != nil {
		v := u.Vehicle.ToResponse()
		resp.Vehicle = &v
	}
	return resp
}
