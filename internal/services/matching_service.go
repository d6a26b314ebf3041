package services

import (
	"context"
	"errors"
	"log"

	"rideshare-backend/internal/middleware"
	"rideshare-backend/internal/models"
)

var (
	ErrNoSeats   = errors.New("нет свободных мест в поездке")
	ErrNotOwner  = errors.New("операция доступна только владельцу")
	ErrWrongRole = errors.New("операция недоступна для роли пользователя")
)

// UserDirectory — справочник пользователей, который потребляет движок
type UserDirectory interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// RideLedger — журнал поездок водителей с атомарным резервированием мест
type RideLedger interface {
	FindByID(ctx context.Context, id uint) (*models.DriverRide, error)
	ReserveSeats(ctx context.Context, rideID uint, seats int) (bool, error)
	ReleaseSeats(ctx context.Context, rideID uint, seats int) error
	AppendPassenger(ctx context.Context, rideID, requestID, passengerID uint) error
}

// RequestLedger — журнал запросов пассажиров с CAS-обновлением статуса
type RequestLedger interface {
	Create(ctx context.Context, request *models.PassengerRide) error
	FindByID(ctx context.Context, id uint) (*models.PassengerRide, error)
	UpdateStatus(ctx context.Context, id uint, from, to models.RideRequestStatus, reason string) (bool, error)
}

// MatchingService связывает журналы поездок и запросов: проверка мест при
// создании запроса, переходы статусов по таблице переходов, ведение состава
// поездки. Все изменения статуса проходят только через этот сервис.
type MatchingService struct {
	users    UserDirectory
	rides    RideLedger
	requests RequestLedger
}

func NewMatchingService(users UserDirectory, rides RideLedger, requests RequestLedger) *MatchingService {
	return &MatchingService{
		users:    users,
		rides:    rides,
		requests: requests,
	}
}

// CreateRequestInput — содержимое нового запроса пассажира
type CreateRequestInput struct {
	PickupLocation     string
	DropoffLocation    string
	NumberOfPassengers int
	Price              float64
}

// CreateRequest создает запрос пассажира на участие в поездке.
// Запрос отклоняется, если поездка не существует, пассажир пытается сесть в
// собственную поездку или свободных мест меньше запрошенного количества.
func (s *MatchingService) CreateRequest(ctx context.Context, passengerID, rideID uint, in CreateRequestInput) (*models.PassengerRide, error) {
	passenger, err := s.users.FindByID(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	if passenger.Role != models.RolePassenger {
		return nil, ErrWrongRole
	}

	ride, err := s.rides.FindByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID == passengerID {
		return nil, ErrWrongRole
	}
	if ride.SeatsAvailable <= 0 || ride.SeatsAvailable-ride.BookedSeats < in.NumberOfPassengers {
		return nil, ErrNoSeats
	}

	request := &models.PassengerRide{
		PassengerID:        passengerID,
		DriverID:           ride.DriverID,
		RideID:             rideID,
		PickupLocation:     in.PickupLocation,
		DropoffLocation:    in.DropoffLocation,
		NumberOfPassengers: in.NumberOfPassengers,
		Price:              in.Price,
		Status:             models.RequestStatusRequested,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Accept принимает запрос от имени водителя поездки: резервирует места,
// переводит requested -> accepted и добавляет пассажира в состав поездки.
// Места резервируются до смены статуса и возвращаются, если CAS проиграл
// гонку, поэтому вместимость не нарушается и при конкурентных вызовах.
func (s *MatchingService) Accept(ctx context.Context, driverID, rideID, requestID uint) (*models.PassengerRide, error) {
	ride, request, err := s.loadPair(ctx, rideID, requestID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrNotOwner
	}
	if err := models.CanTransition(request.Status, models.RequestStatusAccepted, models.ActorDriver); err != nil {
		middleware.TrackTransition(string(models.RequestStatusAccepted), false)
		return nil, err
	}

	reserved, err := s.rides.ReserveSeats(ctx, rideID, request.NumberOfPassengers)
	if err != nil {
		return nil, err
	}
	if !reserved {
		middleware.TrackTransition(string(models.RequestStatusAccepted), false)
		return nil, ErrNoSeats
	}

	swapped, err := s.requests.UpdateStatus(ctx, requestID, models.RequestStatusRequested, models.RequestStatusAccepted, "")
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Статус уже изменил конкурентный вызов — возвращаем места
		if relErr := s.rides.ReleaseSeats(ctx, rideID, request.NumberOfPassengers); relErr != nil {
			log.Printf("Ошибка при возврате мест для поездки %d: %v", rideID, relErr)
		}
		middleware.TrackTransition(string(models.RequestStatusAccepted), false)
		return nil, models.ErrInvalidTransition
	}

	if err := s.rides.AppendPassenger(ctx, rideID, requestID, request.PassengerID); err != nil {
		return nil, err
	}

	middleware.TrackTransition(string(models.RequestStatusAccepted), true)
	request.Status = models.RequestStatusAccepted
	return request, nil
}

// Cancel отменяет запрос от имени водителя поездки: requested -> cancelled,
// состав поездки не меняется
func (s *MatchingService) Cancel(ctx context.Context, driverID, rideID, requestID uint, reason string) (*models.PassengerRide, error) {
	ride, request, err := s.loadPair(ctx, rideID, requestID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrNotOwner
	}
	if err := models.CanTransition(request.Status, models.RequestStatusCancelled, models.ActorDriver); err != nil {
		middleware.TrackTransition(string(models.RequestStatusCancelled), false)
		return nil, err
	}

	swapped, err := s.requests.UpdateStatus(ctx, requestID, request.Status, models.RequestStatusCancelled, reason)
	if err != nil {
		return nil, err
	}
	if !swapped {
		middleware.TrackTransition(string(models.RequestStatusCancelled), false)
		return nil, models.ErrInvalidTransition
	}

	middleware.TrackTransition(string(models.RequestStatusCancelled), true)
	request.Status = models.RequestStatusCancelled
	request.CancelReason = reason
	return request, nil
}

// Complete завершает запрос от имени пассажира: accepted -> completed
func (s *MatchingService) Complete(ctx context.Context, passengerID, rideID, requestID uint) (*models.PassengerRide, error) {
	_, request, err := s.loadPair(ctx, rideID, requestID)
	if err != nil {
		return nil, err
	}
	if request.PassengerID != passengerID {
		return nil, ErrNotOwner
	}
	if err := models.CanTransition(request.Status, models.RequestStatusCompleted, models.ActorPassenger); err != nil {
		middleware.TrackTransition(string(models.RequestStatusCompleted), false)
		return nil, err
	}

	swapped, err := s.requests.UpdateStatus(ctx, requestID, request.Status, models.RequestStatusCompleted, "")
	if err != nil {
		return nil, err
	}
	if !swapped {
		middleware.TrackTransition(string(models.RequestStatusCompleted), false)
		return nil, models.ErrInvalidTransition
	}

	middleware.TrackTransition(string(models.RequestStatusCompleted), true)
	request.Status = models.RequestStatusCompleted
	return request, nil
}

// loadPair загружает поездку и запрос и проверяет их соответствие
func (s *MatchingService) loadPair(ctx context.Context, rideID, requestID uint) (*models.DriverRide, *models.PassengerRide, error) {
	ride, err := s.rides.FindByID(ctx, rideID)
	if err != nil {
		return nil, nil, err
	}
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if request.RideID != ride.ID {
		return nil, nil, ErrNotOwner
	}
	return ride, request, nil
}
