package models

import "time"

// Slot represents a single offer of parking availability: one date plus a
// half-open time-of-day window during which a space can be reserved.
type Slot struct {
	ID        string    `bson:"id" json:"id"`
	SpaceID   string    `bson:"spaceId" json:"spaceId"`
	Day       string    `bson:"day" json:"day"`     // e.g., "2025-02-25"
	Start     int       `bson:"start" json:"start"` // seconds from midnight (e.g., 32400 for 9:00 AM)
	End       int       `bson:"end" json:"end"`     // seconds from midnight, exclusive
	Available bool      `bson:"available" json:"available"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Overlaps reports whether the slot's [Start,End) window intersects the given
// one. Windows that merely touch (one ends exactly where the other starts) do
// not overlap.
func (s Slot) Overlaps(start, end int) bool {
	return s.Start < end && start < s.End
}

// SlotView is the wire representation of a slot with clock-string times.
type SlotView struct {
	ID        string `json:"id"`
	SpaceID   string `json:"spaceId"`
	Day       string `json:"day"`
	Start     string `json:"start"` // "09:00:00"
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// ToView converts a slot to its wire representation.
func (s Slot) ToView() SlotView {
	return SlotView{
		ID:        s.ID,
		SpaceID:   s.SpaceID,
		Day:       s.Day,
		Start:     FormatClock(s.Start),
		End:       FormatClock(s.End),
		Available: s.Available,
	}
}

// CreateSlotRequest defines the payload for offering a new slot.
type CreateSlotRequest struct {
	Day   string `json:"day" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// UpdateSlotRequest defines the payload for moving an existing slot's window.
type UpdateSlotRequest struct {
	Day   string `json:"day" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}
