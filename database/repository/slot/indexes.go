// File: database/repository/slot/indexes.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the slots collection.
//
// MongoDB cannot express an interval-exclusion constraint, so the no-overlap
// invariant is enforced by the scheduling engine's per-space write
// serialization; the indexes here back the engine's query patterns.
func (r *mongoSlotRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on slot ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Compound index for spaceId and day (primary query pattern)
		{
			Keys:    bson.D{{Key: "spaceId", Value: 1}, {Key: "day", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("space_day_start_idx"),
		},
		// Compound index for spaceId + availability for filtered listings
		{
			Keys:    bson.D{{Key: "spaceId", Value: 1}, {Key: "available", Value: 1}},
			Options: options.Index().SetName("space_available_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}
