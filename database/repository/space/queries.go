// File: database/repository/space/queries.go
package spaceRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"spotly/models"
)

func (r *mongoSpaceRepo) FetchByID(ctx context.Context, id string) (*models.Space, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var space models.Space
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&space); err != nil {
		return nil, err
	}
	return &space, nil
}
