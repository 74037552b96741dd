package reservation

import (
	"context"
	"errors"
	"time"

	reservationRepo "spotly/database/repository/reservation"
	spaceRepo "spotly/database/repository/space"
	"spotly/models"
	"spotly/services/schedule"
)

var (
	// ErrReservationNotFound is returned when no reservation matches the id.
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrNotReservationOwner is returned when a user acts on someone else's reservation.
	ErrNotReservationOwner = errors.New("reservation does not belong to this user")
	// ErrReservationCancelled is returned when cancelling an already cancelled reservation.
	ErrReservationCancelled = errors.New("reservation is already cancelled")
)

// ReservationService owns the records binding users to reserved slots. Slot
// state itself belongs to the scheduling engine; this service binds and
// releases through it and never flips availability directly.
type ReservationService interface {
	Reserve(ctx context.Context, userID, slotID string) (*models.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID string) (*models.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reservation, error)
}

// DefaultReservationService implements ReservationService.
type DefaultReservationService struct {
	Repo      reservationRepo.ReservationRepository
	Spaces    spaceRepo.SpaceRepository
	Scheduler schedule.SchedulingService

	now func() time.Time
}

// NewDefaultReservationService wires a reservation service.
func NewDefaultReservationService(repo reservationRepo.ReservationRepository, spaces spaceRepo.SpaceRepository, scheduler schedule.SchedulingService) *DefaultReservationService {
	return &DefaultReservationService{
		Repo:      repo,
		Spaces:    spaces,
		Scheduler: scheduler,
		now:       time.Now,
	}
}
