package interfaces

import (
	"context"

	"campuspool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRequestRepository interface {
	// Create inserts a pending request unless one already exists for the same
	// (user, ride) pair; returns ErrDuplicateRequest in that case.
	Create(ctx context.Context, request *models.RideRequest) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error)

	// TransitionIfPending atomically moves a pending request to a terminal
	// status and returns the updated request. Returns ErrNotPending when the
	// request exists but is no longer pending.
	TransitionIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) (*models.RideRequest, error)

	GetPendingByUserAndRide(ctx context.Context, userID, rideID primitive.ObjectID) (*models.RideRequest, error)
	GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error)
	GetPendingByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideRequest, error)
}
