package mongodb

import (
	"context"
	"fmt"
	"time"

	"campuspool/internal/models"
	"campuspool/internal/repositories/interfaces"
	"campuspool/internal/services"
	"campuspool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewRideRepository(db *mongo.Database, cache services.CacheService) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection("rides"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = time.Now()
	if ride.Status == "" {
		ride.Status = models.RideStatusActive
	}
	if ride.PassengerIDs == nil {
		ride.PassengerIDs = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}

	if ride.Status == models.RideStatusActive {
		r.cacheRide(ctx, ride)
	}

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	if r.cache != nil {
		if ride, err := r.cache.GetCachedRide(ctx, id); err == nil && ride != nil {
			return ride, nil
		}
	}

	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrRideNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	if ride.Status == models.RideStatusActive {
		r.cacheRide(ctx, &ride)
	}

	return &ride, nil
}

func (r *rideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update ride: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrRideNotFound
	}

	r.invalidateCache(ctx, id)

	return nil
}

// Status operations

// UpdateStatus only matches active rides, so completed and cancelled rides
// stay terminal no matter how the call races with another transition.
func (r *rideRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideStatus) error {
	updates := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}

	switch status {
	case models.RideStatusCompleted:
		updates["completed_at"] = time.Now()
	case models.RideStatusCancelled:
		updates["cancelled_at"] = time.Now()
	default:
		return models.ErrInvalidArgument
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.RideStatusActive},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update ride status: %w", err)
	}

	if result.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return models.ErrRideNotActive
	}

	r.invalidateCache(ctx, id)

	return nil
}

// AddPassenger is the single atomic read-modify-write guarding the capacity
// invariant: the filter re-checks remaining seats inside the update, so two
// concurrent approvals can never push the passenger set past capacity.
func (r *rideRepository) AddPassenger(ctx context.Context, rideID, userID primitive.ObjectID, requestedSeats int) error {
	if requestedSeats < 1 {
		return models.ErrInvalidArgument
	}

	filter := bson.M{
		"_id":           rideID,
		"status":        models.RideStatusActive,
		"passenger_ids": bson.M{"$ne": userID},
		"$expr": bson.M{
			"$gte": bson.A{
				bson.M{"$subtract": bson.A{"$seat_capacity", bson.M{"$size": "$passenger_ids"}}},
				requestedSeats,
			},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{"passenger_ids": userID},
		"$set":      bson.M{"updated_at": time.Now()},
	}

	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("failed to add passenger: %w", err)
		}
		// Disambiguate: missing ride vs. a ride that failed the guard.
		ride, getErr := r.GetByID(ctx, rideID)
		if getErr != nil {
			return getErr
		}
		if ride.Status != models.RideStatusActive {
			return models.ErrRideNotActive
		}
		return models.ErrNoCapacity
	}

	r.invalidateCache(ctx, rideID)

	return nil
}

// Search and filtering
func (r *rideRepository) GetActive(ctx context.Context) ([]*models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "departure_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"status": models.RideStatusActive}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active rides: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeRides(ctx, cursor)
}

func (r *rideRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	return r.findPaginated(ctx, bson.M{"owner_id": ownerID}, params)
}

func (r *rideRepository) GetByPassenger(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	return r.findPaginated(ctx, bson.M{"passenger_ids": userID}, params)
}

func (r *rideRepository) findPaginated(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rides: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find rides: %w", err)
	}
	defer cursor.Close(ctx)

	rides, err := decodeRides(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return rides, total, nil
}

func decodeRides(ctx context.Context, cursor *mongo.Cursor) ([]*models.Ride, error) {
	var rides []*models.Ride
	for cursor.Next(ctx) {
		var ride models.Ride
		if err := cursor.Decode(&ride); err != nil {
			return nil, fmt.Errorf("failed to decode ride: %w", err)
		}
		rides = append(rides, &ride)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return rides, nil
}

func (r *rideRepository) cacheRide(ctx context.Context, ride *models.Ride) {
	if r.cache != nil {
		r.cache.CacheRide(ctx, ride)
	}
}

func (r *rideRepository) invalidateCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache != nil {
		r.cache.InvalidateRide(ctx, id)
	}
}
