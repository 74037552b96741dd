package schedule

import (
	"context"
	"time"

	slotRepo "spotly/database/repository/slot"
	spaceRepo "spotly/database/repository/space"
	"spotly/models"
)

// SchedulingService manages a space's availability schedule: slot CRUD for
// the owner's management flow and reserve/release transitions for the
// reservation flow. Times are seconds from midnight; days are "2006-01-02"
// strings already normalized to the space's locale by the boundary.
type SchedulingService interface {
	CreateSlot(ctx context.Context, spaceID, day string, start, end int) (*models.Slot, error)
	UpdateSlot(ctx context.Context, id, day string, start, end int) (*models.Slot, error)
	DeleteSlot(ctx context.Context, id string) error
	// ReserveSlot binds the slot and returns it alongside the price quoted
	// from the space's hourly rate, for the caller's reservation record.
	ReserveSlot(ctx context.Context, id string) (*models.Slot, float64, error)
	ReleaseSlot(ctx context.Context, id string) (*models.Slot, error)
	// ListSlots returns a space's slots ordered by start time, optionally
	// filtered to one day and/or to available slots only.
	ListSlots(ctx context.Context, spaceID, day string, availableOnly bool) ([]models.Slot, error)
	GetSlot(ctx context.Context, id string) (*models.Slot, error)
}

// DefaultSchedulingService implements SchedulingService over a slot
// repository, the space catalog's read side, and an optional listing cache.
type DefaultSchedulingService struct {
	Repo   slotRepo.SlotRepository
	Spaces spaceRepo.SpaceRepository
	Cache  *ListCache

	locks *spaceLocks
	now   func() time.Time
}

// NewDefaultSchedulingService wires a scheduling engine. cache may be nil.
func NewDefaultSchedulingService(repo slotRepo.SlotRepository, spaces spaceRepo.SpaceRepository, cache *ListCache) *DefaultSchedulingService {
	return &DefaultSchedulingService{
		Repo:   repo,
		Spaces: spaces,
		Cache:  cache,
		locks:  newSpaceLocks(),
		now:    time.Now,
	}
}
