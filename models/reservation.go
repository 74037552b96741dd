package models

import "time"

// Reservation statuses.
const (
	ReservationActive    = "active"
	ReservationCancelled = "cancelled"
)

// Reservation is the record binding a user to a reserved slot, priced at the
// moment the slot was bound.
type Reservation struct {
	ID        string    `bson:"id" json:"id"`
	SlotID    string    `bson:"slotId" json:"slotId"`
	SpaceID   string    `bson:"spaceId" json:"spaceId"`
	UserID    string    `bson:"userId" json:"userId"`
	Day       string    `bson:"day" json:"day"`
	Start     int       `bson:"start" json:"start"`
	End       int       `bson:"end" json:"end"`
	Price     float64   `bson:"price" json:"price"`
	Currency  string    `bson:"currency" json:"currency"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ReserveRequest defines the payload for booking a slot.
type ReserveRequest struct {
	SlotID string `json:"slotId" binding:"required"`
}
