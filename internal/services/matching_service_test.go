package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/repository"
)

type fakeUsers struct {
	users map[uint]*models.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type rosterEntry struct {
	rideID      uint
	requestID   uint
	passengerID uint
}

type fakeRides struct {
	mu     sync.Mutex
	rides  map[uint]*models.DriverRide
	roster []rosterEntry
}

func (f *fakeRides) FindByID(_ context.Context, id uint) (*models.DriverRide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRides) ReserveSeats(_ context.Context, rideID uint, seats int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[rideID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if r.BookedSeats+seats > r.SeatsAvailable {
		return false, nil
	}
	r.BookedSeats += seats
	return true, nil
}

func (f *fakeRides) ReleaseSeats(_ context.Context, rideID uint, seats int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.BookedSeats >= seats {
		r.BookedSeats -= seats
	}
	return nil
}

func (f *fakeRides) AppendPassenger(_ context.Context, rideID, requestID, passengerID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roster = append(f.roster, rosterEntry{rideID: rideID, requestID: requestID, passengerID: passengerID})
	return nil
}

type fakeRequests struct {
	mu          sync.Mutex
	requests    map[uint]*models.PassengerRide
	nextID      uint
	failNextCAS bool
}

func (f *fakeRequests) Create(_ context.Context, request *models.PassengerRide) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	request.ID = f.nextID
	copied := *request
	f.requests[request.ID] = &copied
	return nil
}

func (f *fakeRequests) FindByID(_ context.Context, id uint) (*models.PassengerRide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRequests) UpdateStatus(_ context.Context, id uint, from, to models.RideRequestStatus, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNextCAS {
		f.failNextCAS = false
		return false, nil
	}
	r, ok := f.requests[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	if reason != "" {
		r.CancelReason = reason
	}
	return true, nil
}

const (
	driverID    = 1
	passengerID = 2
	rideID      = 10
)

func newFixture() (*MatchingService, *fakeRides, *fakeRequests) {
	users := &fakeUsers{users: map[uint]*models.User{
		driverID:    {ID: driverID, FirstName: "Аскар", Role: models.RoleDriver},
		passengerID: {ID: passengerID, FirstName: "Дана", Role: models.RolePassenger},
		3:           {ID: 3, FirstName: "Мади", Role: models.RolePassenger},
	}}
	rides := &fakeRides{rides: map[uint]*models.DriverRide{
		rideID: {ID: rideID, DriverID: driverID, SeatsAvailable: 2, Price: 1500},
	}}
	requests := &fakeRequests{requests: map[uint]*models.PassengerRide{}}
	return NewMatchingService(users, rides, requests), rides, requests
}

func createRequest(t *testing.T, svc *MatchingService, passenger uint, seats int) *models.PassengerRide {
	t.Helper()
	request, err := svc.CreateRequest(context.Background(), passenger, rideID, CreateRequestInput{
		PickupLocation:     "Алматы",
		DropoffLocation:    "Астана",
		NumberOfPassengers: seats,
		Price:              1500,
	})
	require.NoError(t, err)
	return request
}

func TestCreateRequest(t *testing.T) {
	svc, _, _ := newFixture()

	request := createRequest(t, svc, passengerID, 1)
	assert.Equal(t, models.RequestStatusRequested, request.Status)
	assert.Equal(t, uint(driverID), request.DriverID)
	assert.Equal(t, uint(rideID), request.RideID)
}

func TestCreateRequestDriverForbidden(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateRequest(context.Background(), driverID, rideID, CreateRequestInput{NumberOfPassengers: 1})
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestCreateRequestUnknownRide(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateRequest(context.Background(), passengerID, 999, CreateRequestInput{NumberOfPassengers: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateRequestNoSeats(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateRequest(context.Background(), passengerID, rideID, CreateRequestInput{NumberOfPassengers: 3})
	assert.ErrorIs(t, err, ErrNoSeats)
}

func TestAccept(t *testing.T) {
	svc, rides, _ := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	accepted, err := svc.Accept(context.Background(), driverID, rideID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, accepted.Status)

	assert.Equal(t, 1, rides.rides[rideID].BookedSeats)
	require.Len(t, rides.roster, 1)
	assert.Equal(t, rosterEntry{rideID: rideID, requestID: request.ID, passengerID: passengerID}, rides.roster[0])
}

func TestAcceptNotOwner(t *testing.T) {
	svc, rides, _ := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	_, err := svc.Accept(context.Background(), 99, rideID, request.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, rides.roster)
}

func TestAcceptTwice(t *testing.T) {
	svc, rides, _ := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	_, err := svc.Accept(context.Background(), driverID, rideID, request.ID)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), driverID, rideID, request.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// Места и состав не задвоились
	assert.Equal(t, 1, rides.rides[rideID].BookedSeats)
	assert.Len(t, rides.roster, 1)
}

func TestAcceptOverCapacity(t *testing.T) {
	svc, rides, _ := newFixture()
	first := createRequest(t, svc, passengerID, 2)
	second := createRequest(t, svc, 3, 1)

	_, err := svc.Accept(context.Background(), driverID, rideID, first.ID)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), driverID, rideID, second.ID)
	assert.ErrorIs(t, err, ErrNoSeats)
	assert.Equal(t, 2, rides.rides[rideID].BookedSeats)
	assert.Len(t, rides.roster, 1)
}

func TestAcceptLostRaceReleasesSeats(t *testing.T) {
	svc, rides, requests := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	requests.failNextCAS = true
	_, err := svc.Accept(context.Background(), driverID, rideID, request.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// Зарезервированные места возвращены, пассажир не добавлен
	assert.Equal(t, 0, rides.rides[rideID].BookedSeats)
	assert.Empty(t, rides.roster)
}

func TestAcceptRequestFromOtherRide(t *testing.T) {
	svc, rides, _ := newFixture()
	rides.rides[20] = &models.DriverRide{ID: 20, DriverID: driverID, SeatsAvailable: 2}
	request := createRequest(t, svc, passengerID, 1)

	_, err := svc.Accept(context.Background(), driverID, 20, request.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancel(t *testing.T) {
	svc, rides, _ := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	cancelled, err := svc.Cancel(context.Background(), driverID, rideID, request.ID, "машина сломалась")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCancelled, cancelled.Status)
	assert.Equal(t, "машина сломалась", cancelled.CancelReason)

	assert.Equal(t, 0, rides.rides[rideID].BookedSeats)
	assert.Empty(t, rides.roster)
}

func TestCancelAccepted(t *testing.T) {
	svc, _, _ := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	_, err := svc.Accept(context.Background(), driverID, rideID, request.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), driverID, rideID, request.ID, "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestComplete(t *testing.T) {
	svc, _, requests := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	_, err := svc.Accept(context.Background(), driverID, rideID, request.ID)
	require.NoError(t, err)

	completed, err := svc.Complete(context.Background(), passengerID, rideID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, completed.Status)
	assert.Equal(t, models.RequestStatusCompleted, requests.requests[request.ID].Status)
}

func TestCompleteBeforeAccept(t *testing.T) {
	svc, _, _ := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	_, err := svc.Complete(context.Background(), passengerID, rideID, request.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestCompleteNotOwner(t *testing.T) {
	svc, _, _ := newFixture()
	request := createRequest(t, svc, passengerID, 1)

	_, err := svc.Accept(context.Background(), driverID, rideID, request.ID)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), 3, rideID, request.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}
