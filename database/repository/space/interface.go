// File: database/repository/space/interface.go
package spaceRepo

import (
	"context"

	"spotly/config"
	"spotly/database"
	"spotly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SpaceRepository exposes the read side of the parking-space catalog that the
// scheduling engine depends on (ownership, hourly rate). Space CRUD lives in
// the catalog service, not here.
type SpaceRepository interface {
	FetchByID(ctx context.Context, id string) (*models.Space, error)
}

type mongoSpaceRepo struct {
	coll *mongo.Collection
}

// NewMongoSpaceRepo constructs a new MongoDB SpaceRepository.
func NewMongoSpaceRepo() SpaceRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoSpaceRepo{
		coll: db.Collection("spaces"),
	}
}
