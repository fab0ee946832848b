package services

import (
	"context"
	"fmt"

	"campuspool/internal/models"
	"campuspool/internal/repositories/interfaces"
	"campuspool/internal/utils"
	"campuspool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingService interface {
	RecordRating(ctx context.Context, raterID primitive.ObjectID, req *RecordRatingRequest) (*models.Rating, error)
	GetUserRatings(ctx context.Context, userID primitive.ObjectID) ([]*models.Rating, error)
	GetRideRatings(ctx context.Context, rideID primitive.ObjectID) ([]*models.Rating, error)
}

type RecordRatingRequest struct {
	RatedUserID primitive.ObjectID `json:"rated_user_id" validate:"required"`
	RideID      primitive.ObjectID `json:"ride_id" validate:"required"`
	Score       int                `json:"score" validate:"required,min=1,max=5"`
	Type        models.RatingType  `json:"type" validate:"required,oneof=driver passenger"`
	Comment     string             `json:"comment" validate:"omitempty,max=500"`
}

type ratingService struct {
	ratingRepo          interfaces.RatingRepository
	userRepo            interfaces.UserRepository
	notificationService NotificationService
	logger              *logger.Logger
}

func NewRatingService(
	ratingRepo interfaces.RatingRepository,
	userRepo interfaces.UserRepository,
	notificationService NotificationService,
	log *logger.Logger,
) RatingService {
	return &ratingService{
		ratingRepo:          ratingRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		logger:              log,
	}
}

func (s *ratingService) RecordRating(ctx context.Context, raterID primitive.ObjectID, req *RecordRatingRequest) (*models.Rating, error) {
	if req == nil || raterID.IsZero() || req.RatedUserID.IsZero() || req.RideID.IsZero() {
		return nil, models.ErrInvalidArgument
	}
	if req.Score < utils.MinRatingScore || req.Score > utils.MaxRatingScore {
		return nil, models.ErrInvalidScore
	}
	if req.Type != models.RatingTypeDriver && req.Type != models.RatingTypePassenger {
		return nil, models.ErrInvalidArgument
	}
	if raterID == req.RatedUserID {
		return nil, models.ErrInvalidArgument
	}

	if _, err := s.userRepo.GetByID(ctx, req.RatedUserID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		RaterID: raterID,
		RatedID: req.RatedUserID,
		RideID:  req.RideID,
		Score:   req.Score,
		Comment: req.Comment,
		Type:    req.Type,
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	if err := s.recomputeAggregate(ctx, req.RatedUserID); err != nil {
		s.logger.WithUserID(req.RatedUserID).WithError(err).Warn("failed to recompute rating aggregate")
	}

	if s.notificationService != nil {
		_, err := s.notificationService.Notify(ctx, &NotifyRequest{
			UserID:  req.RatedUserID,
			Type:    models.NotificationTypeRating,
			Title:   "New rating",
			Message: fmt.Sprintf("You received a %d-star rating", req.Score),
			Data:    map[string]string{"ride_id": req.RideID.Hex()},
		})
		if err != nil {
			s.logger.WithUserID(req.RatedUserID).WithError(err).Warn("rating notification failed")
		}
	}

	return rating, nil
}

func (s *ratingService) GetUserRatings(ctx context.Context, userID primitive.ObjectID) ([]*models.Rating, error) {
	return s.ratingRepo.GetByRatedUser(ctx, userID)
}

func (s *ratingService) GetRideRatings(ctx context.Context, rideID primitive.ObjectID) ([]*models.Rating, error) {
	return s.ratingRepo.GetByRide(ctx, rideID)
}

// recomputeAggregate rebuilds the mean and count from every stored rating
// instead of incrementally adjusting them, so a replay converges to the same
// values.
func (s *ratingService) recomputeAggregate(ctx context.Context, userID primitive.ObjectID) error {
	ratings, err := s.ratingRepo.GetByRatedUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load ratings: %w", err)
	}

	if len(ratings) == 0 {
		return s.userRepo.UpdateRatingAggregate(ctx, userID, 0, 0)
	}

	var sum int
	for _, rating := range ratings {
		sum += rating.Score
	}
	mean := utils.Round2(float64(sum) / float64(len(ratings)))

	return s.userRepo.UpdateRatingAggregate(ctx, userID, mean, len(ratings))
}
