package models

import "time"

// Space holds the subset of a parking space's record the scheduling engine
// needs: ownership for authorization and the hourly rate for pricing. The full
// space profile (address, photos, reviews) is managed elsewhere.
type Space struct {
	ID         string    `bson:"id" json:"id"`
	OwnerID    string    `bson:"ownerId" json:"ownerId"`
	Name       string    `bson:"name" json:"name"`
	HourlyRate float64   `bson:"hourlyRate" json:"hourlyRate"`
	Currency   string    `bson:"currency" json:"currency"` // ISO 4217, e.g., "EUR"
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
