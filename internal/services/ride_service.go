package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campuspool/internal/models"
	"campuspool/internal/repositories/interfaces"
	"campuspool/internal/utils"
	"campuspool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RideService owns every Ride and RideRequest state transition. The acting
// user is always an explicit parameter; there is no ambient session.
type RideService interface {
	CreateRide(ctx context.Context, ownerID primitive.ObjectID, req *CreateRideRequest) (*models.Ride, error)
	GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error)
	UpdateRide(ctx context.Context, userID, rideID primitive.ObjectID, req *UpdateRideRequest) (*models.Ride, error)
	Search(ctx context.Context, userID primitive.ObjectID, criteria *SearchCriteria) ([]*models.Ride, error)

	RequestToJoin(ctx context.Context, userID, rideID primitive.ObjectID, req *JoinRideRequest) (*models.RideRequest, error)
	ApproveRequest(ctx context.Context, userID, requestID primitive.ObjectID) (*models.RideRequest, error)
	RejectRequest(ctx context.Context, userID, requestID primitive.ObjectID) (*models.RideRequest, error)

	CompleteRide(ctx context.Context, userID, rideID primitive.ObjectID) error
	CancelRide(ctx context.Context, userID, rideID primitive.ObjectID) error

	GetRideRequests(ctx context.Context, userID, rideID primitive.ObjectID) ([]*models.RideRequest, error)
	GetUserRequests(ctx context.Context, userID primitive.ObjectID) ([]*models.RideRequest, error)
	GetUserRides(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error)
	GetJoinedRides(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error)
}

type CreateRideRequest struct {
	Kind          models.RideKind        `json:"kind" validate:"required,oneof=offer request"`
	Origin        models.Location        `json:"origin" validate:"required"`
	Destination   models.Location        `json:"destination" validate:"required"`
	DepartureTime time.Time              `json:"departure_time" validate:"required"`
	SeatCapacity  int                    `json:"seat_capacity" validate:"required,min=1,max=8"`
	PricePerSeat  float64                `json:"price_per_seat" validate:"min=0"`
	Description   string                 `json:"description" validate:"omitempty,max=1000"`
	Preferences   models.RidePreferences `json:"preferences"`
}

type UpdateRideRequest struct {
	DepartureTime *time.Time              `json:"departure_time,omitempty"`
	PricePerSeat  *float64                `json:"price_per_seat,omitempty"`
	Description   *string                 `json:"description,omitempty"`
	Preferences   *models.RidePreferences `json:"preferences,omitempty"`
}

type JoinRideRequest struct {
	Seats   int    `json:"seats" validate:"omitempty,min=1,max=8"`
	Message string `json:"message" validate:"omitempty,max=500"`
}

// SearchCriteria are conjunctive; absent fields pass every ride through.
type SearchCriteria struct {
	Kind             models.RideKind          `json:"kind,omitempty"`
	FromCity         string                   `json:"from_city,omitempty"`
	ToCity           string                   `json:"to_city,omitempty"`
	DepartureDate    *time.Time               `json:"departure_date,omitempty"`
	MaxCostPerSeat   *float64                 `json:"max_cost_per_seat,omitempty"`
	MinSeats         int                      `json:"min_seats,omitempty"`
	GenderPreference *models.GenderPreference `json:"gender_preference,omitempty"`
}

type rideService struct {
	rideRepo            interfaces.RideRepository
	requestRepo         interfaces.RideRequestRepository
	notificationService NotificationService
	logger              *logger.Logger
}

func NewRideService(
	rideRepo interfaces.RideRepository,
	requestRepo interfaces.RideRequestRepository,
	notificationService NotificationService,
	log *logger.Logger,
) RideService {
	return &rideService{
		rideRepo:            rideRepo,
		requestRepo:         requestRepo,
		notificationService: notificationService,
		logger:              log,
	}
}

func (s *rideService) CreateRide(ctx context.Context, ownerID primitive.ObjectID, req *CreateRideRequest) (*models.Ride, error) {
	if req == nil || ownerID.IsZero() {
		return nil, models.ErrInvalidArgument
	}
	if req.Kind != models.RideKindOffer && req.Kind != models.RideKindSeeking {
		return nil, models.ErrInvalidArgument
	}
	if req.SeatCapacity < 1 || req.SeatCapacity > utils.MaxSeatCapacity {
		return nil, models.ErrInvalidArgument
	}
	if req.PricePerSeat < 0 {
		return nil, models.ErrInvalidArgument
	}

	preferences := req.Preferences
	if preferences.GenderPreference == "" {
		preferences.GenderPreference = models.GenderPreferenceAny
	}

	ride := &models.Ride{
		OwnerID:       ownerID,
		Kind:          req.Kind,
		Status:        models.RideStatusActive,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		SeatCapacity:  req.SeatCapacity,
		PricePerSeat:  req.PricePerSeat,
		Description:   req.Description,
		Preferences:   preferences,
		PassengerIDs:  []primitive.ObjectID{},
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	s.logger.LogRideEvent(ride.ID, "ride_created", map[string]interface{}{
		"owner_id": ownerID.Hex(),
		"kind":     string(ride.Kind),
	})

	return ride, nil
}

func (s *rideService) GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	return s.rideRepo.GetByID(ctx, rideID)
}

func (s *rideService) UpdateRide(ctx context.Context, userID, rideID primitive.ObjectID, req *UpdateRideRequest) (*models.Ride, error) {
	if req == nil {
		return nil, models.ErrInvalidArgument
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.OwnerID != userID {
		return nil, models.ErrNotRideOwner
	}
	if ride.Status != models.RideStatusActive {
		return nil, models.ErrRideNotActive
	}

	updates := make(map[string]interface{})
	if req.DepartureTime != nil {
		updates["departure_time"] = *req.DepartureTime
	}
	if req.PricePerSeat != nil {
		if *req.PricePerSeat < 0 {
			return nil, models.ErrInvalidArgument
		}
		updates["price_per_seat"] = *req.PricePerSeat
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Preferences != nil {
		updates["preferences"] = *req.Preferences
	}
	if len(updates) == 0 {
		return ride, nil
	}

	if err := s.rideRepo.Update(ctx, rideID, updates); err != nil {
		return nil, err
	}

	return s.rideRepo.GetByID(ctx, rideID)
}

// Search pre-filters to active rides the user can actually join (not their
// own, not already joined) and then applies every supplied criterion.
func (s *rideService) Search(ctx context.Context, userID primitive.ObjectID, criteria *SearchCriteria) ([]*models.Ride, error) {
	if criteria == nil {
		criteria = &SearchCriteria{}
	}

	rides, err := s.rideRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active rides: %w", err)
	}

	matches := make([]*models.Ride, 0, len(rides))
	for _, ride := range rides {
		if ride.OwnerID == userID || ride.HasPassenger(userID) {
			continue
		}
		if matchesCriteria(ride, criteria) {
			matches = append(matches, ride)
		}
	}

	return matches, nil
}

func matchesCriteria(ride *models.Ride, criteria *SearchCriteria) bool {
	if criteria.Kind != "" && ride.Kind != criteria.Kind {
		return false
	}
	if criteria.FromCity != "" && !locationMatches(&ride.Origin, criteria.FromCity) {
		return false
	}
	if criteria.ToCity != "" && !locationMatches(&ride.Destination, criteria.ToCity) {
		return false
	}
	if criteria.DepartureDate != nil && !utils.SameCalendarDay(ride.DepartureTime, *criteria.DepartureDate) {
		return false
	}
	if criteria.MaxCostPerSeat != nil && ride.PricePerSeat > *criteria.MaxCostPerSeat {
		return false
	}
	if criteria.MinSeats > 0 && ride.AvailableSeats() < criteria.MinSeats {
		return false
	}
	if criteria.GenderPreference != nil {
		pref := ride.Preferences.GenderPreference
		if pref != models.GenderPreferenceAny && pref != *criteria.GenderPreference {
			return false
		}
	}
	return true
}

// locationMatches does a case-insensitive substring match over the city and
// the full address, so "austin" finds both "Austin" and "Austin, TX".
func locationMatches(location *models.Location, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(location.City), q) ||
		strings.Contains(strings.ToLower(location.Address), q)
}

func (s *rideService) RequestToJoin(ctx context.Context, userID, rideID primitive.ObjectID, req *JoinRideRequest) (*models.RideRequest, error) {
	if req == nil {
		req = &JoinRideRequest{}
	}
	seats := req.Seats
	if seats == 0 {
		seats = 1
	}
	if seats < 1 || seats > utils.MaxSeatCapacity {
		return nil, models.ErrInvalidArgument
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Kind != models.RideKindOffer {
		return nil, models.ErrNotRideOffer
	}
	if ride.Status != models.RideStatusActive {
		return nil, models.ErrRideNotActive
	}
	if ride.OwnerID == userID {
		return nil, models.ErrOwnRide
	}
	if ride.HasPassenger(userID) {
		return nil, models.ErrDuplicateRequest
	}
	if ride.AvailableSeats() < seats {
		return nil, models.ErrNoCapacity
	}

	request := &models.RideRequest{
		RideID:         rideID,
		UserID:         userID,
		RequestedSeats: seats,
		Message:        req.Message,
	}

	// The repository enforces at most one pending request per (user, ride),
	// so a concurrent double-submit still yields a single request.
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.notify(ctx, &NotifyRequest{
		UserID:  ride.OwnerID,
		Type:    models.NotificationTypeRideRequest,
		Title:   "New join request",
		Message: "Someone wants to join your ride",
		Data: map[string]string{
			"ride_id":    rideID.Hex(),
			"request_id": request.ID.Hex(),
		},
	})

	return request, nil
}

// ApproveRequest appends the passenger first, through the repository's atomic
// capacity guard, and only then flips the request to approved. Losing the
// capacity race leaves the request pending and returns ErrNoCapacity, so a
// burst of approvals can never oversell the ride.
func (s *rideService) ApproveRequest(ctx context.Context, userID, requestID primitive.ObjectID) (*models.RideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, request.RideID)
	if err != nil {
		return nil, err
	}
	if ride.OwnerID != userID {
		return nil, models.ErrNotRideOwner
	}
	if request.IsTerminal() {
		return nil, models.ErrNotPending
	}

	if err := s.rideRepo.AddPassenger(ctx, request.RideID, request.UserID, request.RequestedSeats); err != nil {
		if errors.Is(err, models.ErrNoCapacity) {
			// The same request may have been approved concurrently; report
			// the state machine violation rather than a capacity miss.
			if fresh, getErr := s.requestRepo.GetByID(ctx, requestID); getErr == nil && fresh.IsTerminal() {
				return nil, models.ErrNotPending
			}
		}
		return nil, err
	}

	approved, err := s.requestRepo.TransitionIfPending(ctx, requestID, models.RequestStatusApproved)
	if err != nil {
		return nil, err
	}

	s.logger.LogRideEvent(ride.ID, "request_approved", map[string]interface{}{
		"request_id": requestID.Hex(),
		"user_id":    request.UserID.Hex(),
	})

	s.notify(ctx, &NotifyRequest{
		UserID:  request.UserID,
		Type:    models.NotificationTypeRideApproved,
		Title:   "Request approved",
		Message: "Your join request was approved",
		Data: map[string]string{
			"ride_id":    request.RideID.Hex(),
			"request_id": requestID.Hex(),
		},
	})

	return approved, nil
}

func (s *rideService) RejectRequest(ctx context.Context, userID, requestID primitive.ObjectID) (*models.RideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, request.RideID)
	if err != nil {
		return nil, err
	}
	if ride.OwnerID != userID {
		return nil, models.ErrNotRideOwner
	}

	rejected, err := s.requestRepo.TransitionIfPending(ctx, requestID, models.RequestStatusRejected)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, &NotifyRequest{
		UserID:  rejected.UserID,
		Type:    models.NotificationTypeRideRejected,
		Title:   "Request declined",
		Message: "Your join request was declined",
		Data: map[string]string{
			"ride_id":    rejected.RideID.Hex(),
			"request_id": requestID.Hex(),
		},
	})

	return rejected, nil
}

func (s *rideService) CompleteRide(ctx context.Context, userID, rideID primitive.ObjectID) error {
	if _, err := s.ownedRide(ctx, userID, rideID); err != nil {
		return err
	}
	return s.rideRepo.UpdateStatus(ctx, rideID, models.RideStatusCompleted)
}

func (s *rideService) CancelRide(ctx context.Context, userID, rideID primitive.ObjectID) error {
	ride, err := s.ownedRide(ctx, userID, rideID)
	if err != nil {
		return err
	}

	if err := s.rideRepo.UpdateStatus(ctx, rideID, models.RideStatusCancelled); err != nil {
		return err
	}

	s.logger.LogRideEvent(rideID, "ride_cancelled", map[string]interface{}{
		"owner_id": userID.Hex(),
	})

	// Everyone with a stake in the ride hears about the cancellation:
	// confirmed passengers and anyone still waiting on a pending request.
	recipients := make(map[primitive.ObjectID]bool, len(ride.PassengerIDs))
	for _, passengerID := range ride.PassengerIDs {
		recipients[passengerID] = true
	}
	if pending, err := s.requestRepo.GetPendingByRide(ctx, rideID); err == nil {
		for _, request := range pending {
			recipients[request.UserID] = true
		}
	} else {
		s.logger.WithRideID(rideID).WithError(err).Warn("could not load pending requests for cancellation fan-out")
	}

	for recipientID := range recipients {
		s.notify(ctx, &NotifyRequest{
			UserID:  recipientID,
			Type:    models.NotificationTypeRideCancelled,
			Title:   "Ride cancelled",
			Message: "A ride you joined or requested has been cancelled",
			Data:    map[string]string{"ride_id": rideID.Hex()},
		})
	}

	return nil
}

func (s *rideService) GetRideRequests(ctx context.Context, userID, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	if _, err := s.ownedRide(ctx, userID, rideID); err != nil {
		return nil, err
	}
	return s.requestRepo.GetByRide(ctx, rideID)
}

func (s *rideService) GetUserRequests(ctx context.Context, userID primitive.ObjectID) ([]*models.RideRequest, error) {
	return s.requestRepo.GetByUser(ctx, userID)
}

func (s *rideService) GetUserRides(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	return s.rideRepo.GetByOwner(ctx, userID, params)
}

func (s *rideService) GetJoinedRides(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	return s.rideRepo.GetByPassenger(ctx, userID, params)
}

func (s *rideService) ownedRide(ctx context.Context, userID, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.OwnerID != userID {
		return nil, models.ErrNotRideOwner
	}
	return ride, nil
}

// notify is best-effort; a notification failure never fails the operation
// that triggered it.
func (s *rideService) notify(ctx context.Context, req *NotifyRequest) {
	if s.notificationService == nil {
		return
	}
	if _, err := s.notificationService.Notify(ctx, req); err != nil {
		s.logger.WithField("recipient", req.UserID.Hex()).WithError(err).Warn("notification delivery failed")
	}
}
