package mongodb

import (
	"context"
	"fmt"
	"time"

	"campuspool/internal/models"
	"campuspool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ratingRepository struct {
	collection *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) interfaces.RatingRepository {
	return &ratingRepository{
		collection: db.Collection("ratings"),
	}
}

// Create upserts on the (rater, rated, ride, type) tuple so the uniqueness
// invariant holds even when two identical submissions race.
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = time.Now()

	filter := bson.M{
		"rater_id": rating.RaterID,
		"rated_id": rating.RatedID,
		"ride_id":  rating.RideID,
		"type":     rating.Type,
	}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{"$setOnInsert": rating},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	if result.UpsertedCount == 0 {
		return models.ErrDuplicateRating
	}

	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Rating, error) {
	var rating models.Rating
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rating)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return &rating, nil
}

func (r *ratingRepository) GetByRatedUser(ctx context.Context, ratedID primitive.ObjectID) ([]*models.Rating, error) {
	return r.find(ctx, bson.M{"rated_id": ratedID})
}

func (r *ratingRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Rating, error) {
	return r.find(ctx, bson.M{"ride_id": rideID})
}

func (r *ratingRepository) Exists(ctx context.Context, raterID, ratedID, rideID primitive.ObjectID, ratingType models.RatingType) (bool, error) {
	filter := bson.M{
		"rater_id": raterID,
		"rated_id": ratedID,
		"ride_id":  rideID,
		"type":     ratingType,
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check rating existence: %w", err)
	}

	return count > 0, nil
}

func (r *ratingRepository) find(ctx context.Context, filter bson.M) ([]*models.Rating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []*models.Rating
	for cursor.Next(ctx) {
		var rating models.Rating
		if err := cursor.Decode(&rating); err != nil {
			return nil, fmt.Errorf("failed to decode rating: %w", err)
		}
		ratings = append(ratings, &rating)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return ratings, nil
}
