package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"campuspool/internal/models"
	"campuspool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository struct {
	mu    sync.Mutex
	rides map[primitive.ObjectID]*models.Ride
}

func NewRideRepository() *RideRepository {
	return &RideRepository{
		rides: make(map[primitive.ObjectID]*models.Ride),
	}
}

func (r *RideRepository) Create(ctx context.Context, ride *models.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = time.Now()
	if ride.Status == "" {
		ride.Status = models.RideStatusActive
	}
	if ride.PassengerIDs == nil {
		ride.PassengerIDs = []primitive.ObjectID{}
	}

	r.rides[ride.ID] = cloneRide(ride)

	return nil
}

func (r *RideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[id]
	if !ok {
		return nil, models.ErrRideNotFound
	}

	return cloneRide(ride), nil
}

func (r *RideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[id]
	if !ok {
		return models.ErrRideNotFound
	}

	for key, value := range updates {
		switch key {
		case "description":
			ride.Description = value.(string)
		case "price_per_seat":
			ride.PricePerSeat = value.(float64)
		case "departure_time":
			ride.DepartureTime = value.(time.Time)
		case "preferences":
			ride.Preferences = value.(models.RidePreferences)
		}
	}
	ride.UpdatedAt = time.Now()

	return nil
}

func (r *RideRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideStatus) error {
	if status != models.RideStatusCompleted && status != models.RideStatusCancelled {
		return models.ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[id]
	if !ok {
		return models.ErrRideNotFound
	}
	if ride.Status != models.RideStatusActive {
		return models.ErrRideNotActive
	}

	now := time.Now()
	ride.Status = status
	switch status {
	case models.RideStatusCompleted:
		ride.CompletedAt = &now
	case models.RideStatusCancelled:
		ride.CancelledAt = &now
	}
	ride.UpdatedAt = now

	return nil
}

// AddPassenger performs the capacity check and the append under one lock,
// matching the single-document atomicity of the MongoDB implementation.
func (r *RideRepository) AddPassenger(ctx context.Context, rideID, userID primitive.ObjectID, requestedSeats int) error {
	if requestedSeats < 1 {
		return models.ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[rideID]
	if !ok {
		return models.ErrRideNotFound
	}
	if ride.Status != models.RideStatusActive {
		return models.ErrRideNotActive
	}
	if ride.HasPassenger(userID) {
		return models.ErrNoCapacity
	}
	if ride.AvailableSeats() < requestedSeats {
		return models.ErrNoCapacity
	}

	ride.PassengerIDs = append(ride.PassengerIDs, userID)
	ride.UpdatedAt = time.Now()

	return nil
}

func (r *RideRepository) GetActive(ctx context.Context) ([]*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rides []*models.Ride
	for _, ride := range r.rides {
		if ride.Status == models.RideStatusActive {
			rides = append(rides, cloneRide(ride))
		}
	}

	sort.Slice(rides, func(i, j int) bool {
		return rides[i].DepartureTime.Before(rides[j].DepartureTime)
	})

	return rides, nil
}

func (r *RideRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	return r.filter(func(ride *models.Ride) bool { return ride.OwnerID == ownerID })
}

func (r *RideRepository) GetByPassenger(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	return r.filter(func(ride *models.Ride) bool { return ride.HasPassenger(userID) })
}

func (r *RideRepository) filter(match func(*models.Ride) bool) ([]*models.Ride, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rides []*models.Ride
	for _, ride := range r.rides {
		if match(ride) {
			rides = append(rides, cloneRide(ride))
		}
	}

	sort.Slice(rides, func(i, j int) bool {
		return rides[i].CreatedAt.After(rides[j].CreatedAt)
	})

	return rides, int64(len(rides)), nil
}

func cloneRide(ride *models.Ride) *models.Ride {
	clone := *ride
	clone.PassengerIDs = append([]primitive.ObjectID(nil), ride.PassengerIDs...)
	return &clone
}
