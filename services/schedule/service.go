package schedule

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/google/uuid"

	"spotly/models"
	"spotly/utils"
)

// CreateSlot validates the candidate window, checks it against every slot the
// space already has on that day, and persists a new Available slot. The read
// and the conflict decision happen under the space's write lock so two racing
// creates cannot both commit.
func (s *DefaultSchedulingService) CreateSlot(ctx context.Context, spaceID, day string, start, end int) (*models.Slot, error) {
	if start >= end {
		return nil, newError(CodeInvalidInterval, "start time must be strictly before end time")
	}
	if day < s.now().Format(models.DayLayout) {
		return nil, newError(CodePastDate, fmt.Sprintf("day %s is in the past", day))
	}

	lock := s.locks.get(spaceID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.Repo.FetchByParkingAndDay(ctx, spaceID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load slots for space %s on %s: %w", spaceID, day, err)
	}
	if conflicting := FindConflicts(day, start, end, existing, ""); len(conflicting) > 0 {
		utils.IncSlotConflict()
		return nil, NewConflictError(conflicting)
	}

	now := s.now()
	slot := models.Slot{
		ID:        uuid.New().String(),
		SpaceID:   spaceID,
		Day:       day,
		Start:     start,
		End:       end,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Insert(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to persist slot: %w", err)
	}

	s.Cache.invalidate(ctx, spaceID, day)
	utils.IncSlotCreated()
	utils.GetLogger().Info("slot created",
		zap.String("slotID", slot.ID), zap.String("spaceID", spaceID), zap.String("day", day))
	return &slot, nil
}

// UpdateSlot moves an existing slot's window, re-running the conflict check
// with the slot itself excluded. Reserved slots cannot be edited: moving the
// window would silently change what the bound reservation covers. Rejected
// updates leave the slot untouched.
func (s *DefaultSchedulingService) UpdateSlot(ctx context.Context, id, day string, start, end int) (*models.Slot, error) {
	if start >= end {
		return nil, newError(CodeInvalidInterval, "start time must be strictly before end time")
	}

	slot, err := s.fetchSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(slot.SpaceID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: state may have moved while we waited.
	slot, err = s.fetchSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if !slot.Available {
		return nil, newError(CodeSlotReserved, "cannot modify: this slot is currently reserved")
	}

	existing, err := s.Repo.FetchByParkingAndDay(ctx, slot.SpaceID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load slots for space %s on %s: %w", slot.SpaceID, day, err)
	}
	if conflicting := FindConflicts(day, start, end, existing, id); len(conflicting) > 0 {
		utils.IncSlotConflict()
		return nil, NewConflictError(conflicting)
	}

	prevDay := slot.Day
	updated := *slot
	updated.Day = day
	updated.Start = start
	updated.End = end
	updated.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, newError(CodeNotFound, fmt.Sprintf("slot %s not found", id))
		}
		return nil, fmt.Errorf("failed to persist slot update: %w", err)
	}

	s.Cache.invalidate(ctx, updated.SpaceID, prevDay)
	if day != prevDay {
		s.Cache.invalidate(ctx, updated.SpaceID, day)
	}
	utils.GetLogger().Info("slot updated",
		zap.String("slotID", id), zap.String("spaceID", updated.SpaceID), zap.String("day", day))
	return &updated, nil
}

// DeleteSlot removes a slot that is not bound to an active reservation.
func (s *DefaultSchedulingService) DeleteSlot(ctx context.Context, id string) error {
	slot, err := s.fetchSlot(ctx, id)
	if err != nil {
		return err
	}

	lock := s.locks.get(slot.SpaceID)
	lock.Lock()
	defer lock.Unlock()

	slot, err = s.fetchSlot(ctx, id)
	if err != nil {
		return err
	}
	if !slot.Available {
		return newError(CodeSlotReserved, "cannot delete: this slot is currently reserved")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return newError(CodeNotFound, fmt.Sprintf("slot %s not found", id))
		}
		return fmt.Errorf("failed to delete slot: %w", err)
	}

	s.Cache.invalidate(ctx, slot.SpaceID, slot.Day)
	utils.GetLogger().Info("slot deleted",
		zap.String("slotID", id), zap.String("spaceID", slot.SpaceID), zap.String("day", slot.Day))
	return nil
}

// ReserveSlot transitions Available -> Reserved and quotes the price from the
// space's hourly rate. The repository write is conditional on the slot still
// being Available, so the transition re-validates at commit time no matter
// what an earlier listing reported.
func (s *DefaultSchedulingService) ReserveSlot(ctx context.Context, id string) (*models.Slot, float64, error) {
	slot, err := s.fetchSlot(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if !slot.Available {
		return nil, 0, newError(CodeSlotUnavailable, "slot is already reserved")
	}

	space, err := s.Spaces.FetchByID(ctx, slot.SpaceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, newError(CodeNotFound, fmt.Sprintf("parking space %s not found", slot.SpaceID))
		}
		return nil, 0, fmt.Errorf("failed to load parking space %s: %w", slot.SpaceID, err)
	}
	price := Quote(slot.Start, slot.End, space.HourlyRate)

	lock := s.locks.get(slot.SpaceID)
	lock.Lock()
	defer lock.Unlock()

	updated, err := s.Repo.SetAvailability(ctx, id, true, false, s.now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost a race: either the slot vanished or someone reserved it first.
			if _, ferr := s.fetchSlot(ctx, id); ferr != nil {
				return nil, 0, ferr
			}
			return nil, 0, newError(CodeSlotUnavailable, "slot is already reserved")
		}
		return nil, 0, fmt.Errorf("failed to reserve slot: %w", err)
	}

	s.Cache.invalidate(ctx, updated.SpaceID, updated.Day)
	utils.IncSlotReserved()
	utils.GetLogger().Info("slot reserved",
		zap.String("slotID", id), zap.String("spaceID", updated.SpaceID), zap.Float64("price", price))
	return updated, price, nil
}

// ReleaseSlot transitions Reserved -> Available. Releasing an already
// available slot fails with slotAlreadyAvailable so callers can detect
// double-release bugs instead of having them masked.
func (s *DefaultSchedulingService) ReleaseSlot(ctx context.Context, id string) (*models.Slot, error) {
	slot, err := s.fetchSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.Available {
		return nil, newError(CodeSlotAlreadyAvailable, "slot is not reserved")
	}

	lock := s.locks.get(slot.SpaceID)
	lock.Lock()
	defer lock.Unlock()

	updated, err := s.Repo.SetAvailability(ctx, id, false, true, s.now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, ferr := s.fetchSlot(ctx, id); ferr != nil {
				return nil, ferr
			}
			return nil, newError(CodeSlotAlreadyAvailable, "slot is not reserved")
		}
		return nil, fmt.Errorf("failed to release slot: %w", err)
	}

	s.Cache.invalidate(ctx, updated.SpaceID, updated.Day)
	utils.IncSlotReleased()
	utils.GetLogger().Info("slot released",
		zap.String("slotID", id), zap.String("spaceID", updated.SpaceID))
	return updated, nil
}

// ListSlots returns a space's slots ordered by start time. Day-scoped
// listings go through the cache; results may be immediately stale, which is
// fine because reserve re-validates at commit time.
func (s *DefaultSchedulingService) ListSlots(ctx context.Context, spaceID, day string, availableOnly bool) ([]models.Slot, error) {
	if day == "" {
		slots, err := s.Repo.FetchBySpace(ctx, spaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to list slots for space %s: %w", spaceID, err)
		}
		return filterAvailable(slots, availableOnly), nil
	}

	if cached, ok := s.Cache.get(ctx, spaceID, day); ok {
		return filterAvailable(cached, availableOnly), nil
	}

	slots, err := s.Repo.FetchByParkingAndDay(ctx, spaceID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for space %s on %s: %w", spaceID, day, err)
	}
	s.Cache.put(ctx, spaceID, day, slots)
	return filterAvailable(slots, availableOnly), nil
}

// GetSlot returns a single slot by id.
func (s *DefaultSchedulingService) GetSlot(ctx context.Context, id string) (*models.Slot, error) {
	return s.fetchSlot(ctx, id)
}

func (s *DefaultSchedulingService) fetchSlot(ctx context.Context, id string) (*models.Slot, error) {
	slot, err := s.Repo.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, newError(CodeNotFound, fmt.Sprintf("slot %s not found", id))
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", id, err)
	}
	return slot, nil
}

func filterAvailable(slots []models.Slot, availableOnly bool) []models.Slot {
	if !availableOnly {
		return slots
	}
	var out []models.Slot
	for _, s := range slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}
