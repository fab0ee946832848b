package interfaces

import (
	"context"

	"campuspool/internal/models"
	"campuspool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateStatus transitions an active ride to completed or cancelled. The
	// filter requires status == active so terminal rides never resurrect;
	// returns ErrRideNotActive when the transition loses.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideStatus) error

	// AddPassenger appends a passenger in a single atomic read-modify-write:
	// the ride must be active, must not already carry the passenger, and must
	// have at least requestedSeats remaining. Returns ErrNoCapacity when the
	// guard fails on an existing active ride.
	AddPassenger(ctx context.Context, rideID, userID primitive.ObjectID, requestedSeats int) error

	GetActive(ctx context.Context) ([]*models.Ride, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error)
	GetByPassenger(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error)
}
