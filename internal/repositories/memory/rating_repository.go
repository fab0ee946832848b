package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"campuspool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingRepository struct {
	mu      sync.Mutex
	ratings map[primitive.ObjectID]*models.Rating
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{
		ratings: make(map[primitive.ObjectID]*models.Rating),
	}
}

func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.ratings {
		if existing.RaterID == rating.RaterID && existing.RatedID == rating.RatedID &&
			existing.RideID == rating.RideID && existing.Type == rating.Type {
			return models.ErrDuplicateRating
		}
	}

	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = time.Now()

	clone := *rating
	r.ratings[rating.ID] = &clone

	return nil
}

func (r *RatingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rating, ok := r.ratings[id]
	if !ok {
		return nil, models.ErrRatingNotFound
	}

	clone := *rating
	return &clone, nil
}

func (r *RatingRepository) GetByRatedUser(ctx context.Context, ratedID primitive.ObjectID) ([]*models.Rating, error) {
	return r.filter(func(rating *models.Rating) bool { return rating.RatedID == ratedID })
}

func (r *RatingRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Rating, error) {
	return r.filter(func(rating *models.Rating) bool { return rating.RideID == rideID })
}

func (r *RatingRepository) Exists(ctx context.Context, raterID, ratedID, rideID primitive.ObjectID, ratingType models.RatingType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rating := range r.ratings {
		if rating.RaterID == raterID && rating.RatedID == ratedID &&
			rating.RideID == rideID && rating.Type == ratingType {
			return true, nil
		}
	}

	return false, nil
}

func (r *RatingRepository) filter(match func(*models.Rating) bool) ([]*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ratings []*models.Rating
	for _, rating := range r.ratings {
		if match(rating) {
			clone := *rating
			ratings = append(ratings, &clone)
		}
	}

	sort.Slice(ratings, func(i, j int) bool {
		return ratings[i].CreatedAt.After(ratings[j].CreatedAt)
	})

	return ratings, nil
}
