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

type rideRequestRepository struct {
	collection *mongo.Collection
}

func NewRideRequestRepository(db *mongo.Database) interfaces.RideRequestRepository {
	return &rideRequestRepository{
		collection: db.Collection("ride_requests"),
	}
}

// Create relies on an upsert keyed by (user, ride, pending): if a pending
// request already exists the upsert matches instead of inserting, which keeps
// the one-pending-request-per-pair invariant atomic under concurrent calls.
func (r *rideRequestRepository) Create(ctx context.Context, request *models.RideRequest) error {
	request.ID = primitive.NewObjectID()
	request.Status = models.RequestStatusPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	if request.RequestedSeats < 1 {
		request.RequestedSeats = 1
	}

	filter := bson.M{
		"ride_id": request.RideID,
		"user_id": request.UserID,
		"status":  models.RequestStatusPending,
	}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{"$setOnInsert": request},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create ride request: %w", err)
	}
	if result.UpsertedCount == 0 {
		return models.ErrDuplicateRequest
	}

	return nil
}

func (r *rideRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	var request models.RideRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get ride request: %w", err)
	}

	return &request, nil
}

// TransitionIfPending enforces the request state machine at the storage
// layer: pending is the only matchable state, approved and rejected are
// terminal.
func (r *rideRequestRepository) TransitionIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) (*models.RideRequest, error) {
	if status != models.RequestStatusApproved && status != models.RequestStatusRejected {
		return nil, models.ErrInvalidArgument
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":       status,
		"responded_at": now,
		"updated_at":   now,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var request models.RideRequest
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": models.RequestStatusPending},
		update,
		opts,
	).Decode(&request)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("failed to transition ride request: %w", err)
		}
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, models.ErrNotPending
	}

	return &request, nil
}

func (r *rideRequestRepository) GetPendingByUserAndRide(ctx context.Context, userID, rideID primitive.ObjectID) (*models.RideRequest, error) {
	var request models.RideRequest
	filter := bson.M{
		"user_id": userID,
		"ride_id": rideID,
		"status":  models.RequestStatusPending,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get pending request: %w", err)
	}

	return &request, nil
}

func (r *rideRequestRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	return r.find(ctx, bson.M{"ride_id": rideID})
}

func (r *rideRequestRepository) GetPendingByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	return r.find(ctx, bson.M{"ride_id": rideID, "status": models.RequestStatusPending})
}

func (r *rideRequestRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideRequest, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *rideRequestRepository) find(ctx context.Context, filter bson.M) ([]*models.RideRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ride requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.RideRequest
	for cursor.Next(ctx) {
		var request models.RideRequest
		if err := cursor.Decode(&request); err != nil {
			return nil, fmt.Errorf("failed to decode ride request: %w", err)
		}
		requests = append(requests, &request)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return requests, nil
}
