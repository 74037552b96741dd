package reservation

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

// Reserve binds a slot through the scheduling engine and persists the
// reservation record priced at binding time. If the record cannot be stored,
// the slot is released again so it does not stay bound to nothing.
func (s *DefaultReservationService) Reserve(ctx context.Context, userID, slotID string) (*models.Reservation, error) {
	slot, price, err := s.Scheduler.ReserveSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	space, err := s.Spaces.FetchByID(ctx, slot.SpaceID)
	if err != nil {
		s.rollbackBinding(ctx, slotID)
		return nil, fmt.Errorf("failed to load parking space %s: %w", slot.SpaceID, err)
	}

	now := s.now()
	res := models.Reservation{
		ID:        uuid.New().String(),
		SlotID:    slot.ID,
		SpaceID:   slot.SpaceID,
		UserID:    userID,
		Day:       slot.Day,
		Start:     slot.Start,
		End:       slot.End,
		Price:     price,
		Currency:  space.Currency,
		Status:    models.ReservationActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Insert(ctx, res); err != nil {
		s.rollbackBinding(ctx, slotID)
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	utils.GetLogger().Info("reservation created",
		zap.String("reservationID", res.ID), zap.String("slotID", slotID),
		zap.String("userID", userID), zap.Float64("price", price))
	return &res, nil
}

// Cancel marks the reservation cancelled and releases its slot. The status
// flip is conditional on the reservation still being active, so concurrent
// cancels collapse to a single release.
func (s *DefaultReservationService) Cancel(ctx context.Context, userID, reservationID string) (*models.Reservation, error) {
	res, err := s.Repo.FetchByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to load reservation %s: %w", reservationID, err)
	}
	if res.UserID != userID {
		return nil, ErrNotReservationOwner
	}
	if res.Status != models.ReservationActive {
		return nil, ErrReservationCancelled
	}

	now := s.now()
	if err := s.Repo.SetStatus(ctx, reservationID, models.ReservationActive, models.ReservationCancelled, now); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReservationCancelled
		}
		return nil, fmt.Errorf("failed to cancel reservation %s: %w", reservationID, err)
	}

	if _, err := s.Scheduler.ReleaseSlot(ctx, res.SlotID); err != nil {
		// The record is cancelled but the slot did not release cleanly;
		// surface the anomaly instead of hiding it.
		utils.GetLogger().Error("slot release failed after cancellation",
			zap.String("reservationID", reservationID), zap.String("slotID", res.SlotID), zap.Error(err))
		return nil, err
	}

	res.Status = models.ReservationCancelled
	res.UpdatedAt = now
	utils.GetLogger().Info("reservation cancelled",
		zap.String("reservationID", reservationID), zap.String("slotID", res.SlotID))
	return res, nil
}

// ListByUser returns a user's reservations, most recent first.
func (s *DefaultReservationService) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	out, err := s.Repo.FetchByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for user %s: %w", userID, err)
	}
	return out, nil
}

// rollbackBinding releases a slot whose reservation record never made it to
// storage. Best effort: a failure here leaves the slot Reserved and is loud
// in the logs.
func (s *DefaultReservationService) rollbackBinding(ctx context.Context, slotID string) {
	if _, err := s.Scheduler.ReleaseSlot(ctx, slotID); err != nil {
		utils.GetLogger().Error("failed to roll back slot binding",
			zap.String("slotID", slotID), zap.Error(err))
	}
}
