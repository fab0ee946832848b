package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"campuspool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRequestRepository struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.RideRequest
}

func NewRideRequestRepository() *RideRequestRepository {
	return &RideRequestRepository{
		requests: make(map[primitive.ObjectID]*models.RideRequest),
	}
}

func (r *RideRequestRepository) Create(ctx context.Context, request *models.RideRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.requests {
		if existing.UserID == request.UserID && existing.RideID == request.RideID &&
			existing.Status == models.RequestStatusPending {
			return models.ErrDuplicateRequest
		}
	}

	request.ID = primitive.NewObjectID()
	request.Status = models.RequestStatusPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	if request.RequestedSeats < 1 {
		request.RequestedSeats = 1
	}

	clone := *request
	r.requests[request.ID] = &clone

	return nil
}

func (r *RideRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, models.ErrRequestNotFound
	}

	clone := *request
	return &clone, nil
}

func (r *RideRequestRepository) TransitionIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) (*models.RideRequest, error) {
	if status != models.RequestStatusApproved && status != models.RequestStatusRejected {
		return nil, models.ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, models.ErrRequestNotFound
	}
	if request.Status != models.RequestStatusPending {
		return nil, models.ErrNotPending
	}

	now := time.Now()
	request.Status = status
	request.RespondedAt = &now
	request.UpdatedAt = now

	clone := *request
	return &clone, nil
}

func (r *RideRequestRepository) GetPendingByUserAndRide(ctx context.Context, userID, rideID primitive.ObjectID) (*models.RideRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, request := range r.requests {
		if request.UserID == userID && request.RideID == rideID &&
			request.Status == models.RequestStatusPending {
			clone := *request
			return &clone, nil
		}
	}

	return nil, models.ErrRequestNotFound
}

func (r *RideRequestRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	return r.filter(func(req *models.RideRequest) bool { return req.RideID == rideID })
}

func (r *RideRequestRepository) GetPendingByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	return r.filter(func(req *models.RideRequest) bool {
		return req.RideID == rideID && req.Status == models.RequestStatusPending
	})
}

func (r *RideRequestRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideRequest, error) {
	return r.filter(func(req *models.RideRequest) bool { return req.UserID == userID })
}

func (r *RideRequestRepository) filter(match func(*models.RideRequest) bool) ([]*models.RideRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var requests []*models.RideRequest
	for _, request := range r.requests {
		if match(request) {
			clone := *request
			requests = append(requests, &clone)
		}
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return requests, nil
}
