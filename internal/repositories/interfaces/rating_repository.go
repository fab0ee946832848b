package interfaces

import (
	"context"

	"campuspool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingRepository interface {
	// Create inserts a rating unless one already exists for the same
	// (rater, rated user, ride, type) tuple; returns ErrDuplicateRating then.
	Create(ctx context.Context, rating *models.Rating) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Rating, error)
	GetByRatedUser(ctx context.Context, ratedID primitive.ObjectID) ([]*models.Rating, error)
	GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Rating, error)
	Exists(ctx context.Context, raterID, ratedID, rideID primitive.ObjectID, ratingType models.RatingType) (bool, error)
}
