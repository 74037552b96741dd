// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"time"

	"spotly/config"
	"spotly/database"
	"spotly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository is the durable store for schedule slots. Mutating calls keyed
// by id are conditional where the scheduling engine needs commit-time
// revalidation (SetAvailability).
type SlotRepository interface {
	FetchByParkingAndDay(ctx context.Context, spaceID, day string) ([]models.Slot, error)
	FetchBySpace(ctx context.Context, spaceID string) ([]models.Slot, error)
	FetchByID(ctx context.Context, id string) (*models.Slot, error)
	Insert(ctx context.Context, slot models.Slot) error
	Update(ctx context.Context, slot models.Slot) error
	Delete(ctx context.Context, id string) error
	// SetAvailability flips a slot's availability only if it currently holds
	// the expected value, refreshing UpdatedAt. Returns the updated slot, or
	// mongo.ErrNoDocuments when no slot matched id+expected state.
	SetAvailability(ctx context.Context, id string, expected, next bool, at time.Time) (*models.Slot, error)
	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoSlotRepo{
		coll: db.Collection("slots"),
	}
}
