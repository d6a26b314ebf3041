package models

import (
	"errors"
	"fmt"
	"time"
)

type RideRequestStatus string

const (
	RequestStatusRequested RideRequestStatus = "requested" // Запрошено пассажиром
	RequestStatusAccepted  RideRequestStatus = "accepted"  // Принято водителем
	RequestStatusCompleted RideRequestStatus = "completed" // Завершено пассажиром
	RequestStatusCancelled RideRequestStatus = "cancelled" // Отменено водителем
)

// Actor — кто выполняет переход статуса
type Actor string

const (
	ActorDriver    Actor = "driver"
	ActorPassenger Actor = "passenger"
)

var (
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
	ErrWrongActor        = errors.New("переход недоступен этой роли")
)

// IsValidRequestStatus проверяет значение статуса из тела запроса
func IsValidRequestStatus(s RideRequestStatus) bool {
	switch s {
	case RequestStatusRequested, RequestStatusAccepted, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// Terminal сообщает, является ли статус конечным: из cancelled и completed
// переходы запрещены
func (s RideRequestStatus) Terminal() bool {
	return s == RequestStatusCancelled || s == RequestStatusCompleted
}

// transitions — таблица переходов жизненного цикла запроса.
// requested -> accepted|cancelled выполняет водитель поездки,
// accepted -> completed выполняет пассажир запроса.
var transitions = map[RideRequestStatus]map[RideRequestStatus]Actor{
	RequestStatusRequested: {
		RequestStatusAccepted:  ActorDriver,
		RequestStatusCancelled: ActorDriver,
	},
	RequestStatusAccepted: {
		RequestStatusCompleted: ActorPassenger,
	},
}

// CanTransition проверяет переход current -> target для указанной роли.
// Все проверки статусной машины сосредоточены здесь, обработчики не
// присваивают статус напрямую.
func CanTransition(current, target RideRequestStatus, actor Actor) error {
	if current == target {
		return fmt.Errorf("%w: запрос уже в статусе %q", ErrInvalidTransition, current)
	}
	if current.Terminal() {
		return fmt.Errorf("%w: статус %q конечный", ErrInvalidTransition, current)
	}
	allowed, ok := transitions[current]
	if !ok {
		return fmt.Errorf("%w: неизвестный статус %q", ErrInvalidTransition, current)
	}
	requiredActor, ok := allowed[target]
	if !ok {
		if target == RequestStatusCompleted {
			return fmt.Errorf("%w: запрос сначала должен быть принят", ErrInvalidTransition)
		}
		return fmt.Errorf("%w: из %q в %q", ErrInvalidTransition, current, target)
	}
	if requiredActor != actor {
		return fmt.Errorf("%w: переход в %q выполняет %s", ErrWrongActor, target, requiredActor)
	}
	return nil
}

// PassengerRide представляет запрос пассажира на участие в поездке водителя.
// Поле driver_id денормализовано из поездки при создании запроса.
type PassengerRide struct {
	ID                 uint              `json:"id" gorm:"primaryKey"`
	PassengerID        uint              `json:"passenger_id" gorm:"not null;index"`
	DriverID           uint              `json:"driver_id" gorm:"not null"`
	RideID             uint              `json:"ride_id" gorm:"not null;index"`
	PickupLocation     string            `json:"pickup_location" gorm:"not null"`
	DropoffLocation    string            `json:"dropoff_location" gorm:"not null"`
	NumberOfPassengers int               `json:"number_of_passengers" gorm:"not null"`
	Price              float64           `json:"price" gorm:"not null"`
	Status             RideRequestStatus `json:"status" gorm:"type:varchar(20);default:'requested'"`
	CancelReason       string            `json:"cancel_reason,omitempty" gorm:"default:''"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Passenger          User              `json:"-" gorm:"foreignKey:PassengerID"`
	Ride               DriverRide        `json:"-" gorm:"foreignKey:RideID"`
}

type PassengerRideResponse struct {
	ID                 uint              `json:"id"`
	PassengerID        uint              `json:"passenger_id"`
	DriverID           uint              `json:"driver_id"`
	RideID             uint              `json:"ride_id"`
	PickupLocation     string            `json:"pickup_location"`
	DropoffLocation    string            `json:"dropoff_location"`
	NumberOfPassengers int               `json:"number_of_passengers"`
	Price              float64           `json:"price"`
	Status             RideRequestStatus `json:"status"`
	CancelReason       string            `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	PassengerName      string            `json:"passenger_name,omitempty"`
}

func (p *PassengerRide) ToResponse() PassengerRideResponse {
	resp := PassengerRideResponse{
		ID:                 p.ID,
		PassengerID:        p.PassengerID,
		DriverID:           p.DriverID,
		RideID:             p.RideID,
		PickupLocation:     p.PickupLocation,
		DropoffLocation:    p.DropoffLocation,
		NumberOfPassengers: p.NumberOfPassengers,
		Price:              p.Price,
		Status:             p.Status,
		CancelReason:       p.CancelReason,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Passenger.ID != 0 {
		resp.PassengerName = p.Passenger.FirstName + " " + p.Passenger.LastName
	}
	return resp
}
