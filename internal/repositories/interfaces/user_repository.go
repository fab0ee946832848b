package interfaces

import (
	"context"

	"campuspool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateRatingAggregate overwrites the derived rating fields. The values
	// are recomputed from scratch by the rating service, never incremented.
	UpdateRatingAggregate(ctx context.Context, id primitive.ObjectID, rating float64, totalRatings int) error

	AddPushToken(ctx context.Context, id primitive.ObjectID, platform, token string) error
}
