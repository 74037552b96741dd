// File: database/repository/reservation/interface.go
package reservationRepo

import (
	"context"
	"time"

	"spotly/config"
	"spotly/database"
	"spotly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReservationRepository stores the records binding users to reserved slots.
type ReservationRepository interface {
	Insert(ctx context.Context, res models.Reservation) error
	FetchByID(ctx context.Context, id string) (*models.Reservation, error)
	FetchByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	// SetStatus moves a reservation from one status to another, refreshing
	// UpdatedAt. Returns mongo.ErrNoDocuments when no reservation matched
	// id+expected status.
	SetStatus(ctx context.Context, id, expected, next string, at time.Time) error
	EnsureIndexes() error
}

type mongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs a new MongoDB ReservationRepository.
func NewMongoReservationRepo() ReservationRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoReservationRepo{
		coll: db.Collection("reservations"),
	}
}
