package services

import (
	"context"
	"testing"

	"campuspool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecordRating(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the rating and updates the aggregate", func(t *testing.T) {
		f := newFixtures(t)
		rater := f.createUser(t, "rater@state.edu")
		rated := f.createUser(t, "rated@state.edu")
		rideID := primitive.NewObjectID()

		rating, err := f.ratingService.RecordRating(ctx, rater.ID, &RecordRatingRequest{
			RatedUserID: rated.ID,
			RideID:      rideID,
			Score:       4,
			Type:        models.RatingTypeDriver,
			Comment:     "smooth ride",
		})
		require.NoError(t, err)
		assert.Equal(t, 4, rating.Score)

		fresh, err := f.users.GetByID(ctx, rated.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, fresh.Rating)
		assert.Equal(t, 1, fresh.TotalRatings)

		assert.Equal(t, 1, f.countNotifications(t, rated.ID, models.NotificationTypeRating))
	})

	t.Run("aggregate is the recomputed mean over all ratings", func(t *testing.T) {
		f := newFixtures(t)
		rated := f.createUser(t, "rated@state.edu")

		scores := []int{5, 4, 4}
		for _, score := range scores {
			rater := f.createUser(t, "rater@state.edu")
			_, err := f.ratingService.RecordRating(ctx, rater.ID, &RecordRatingRequest{
				RatedUserID: rated.ID,
				RideID:      primitive.NewObjectID(),
				Score:       score,
				Type:        models.RatingTypePassenger,
			})
			require.NoError(t, err)
		}

		fresh, err := f.users.GetByID(ctx, rated.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.33, fresh.Rating)
		assert.Equal(t, 3, fresh.TotalRatings)
	})

	t.Run("duplicate tuple is rejected and the aggregate is unchanged", func(t *testing.T) {
		f := newFixtures(t)
		rater := f.createUser(t, "rater@state.edu")
		rated := f.createUser(t, "rated@state.edu")
		rideID := primitive.NewObjectID()

		req := &RecordRatingRequest{
			RatedUserID: rated.ID,
			RideID:      rideID,
			Score:       5,
			Type:        models.RatingTypeDriver,
		}

		_, err := f.ratingService.RecordRating(ctx, rater.ID, req)
		require.NoError(t, err)

		_, err = f.ratingService.RecordRating(ctx, rater.ID, req)
		assert.ErrorIs(t, err, models.ErrDuplicateRating)

		fresh, err := f.users.GetByID(ctx, rated.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, fresh.Rating)
		assert.Equal(t, 1, fresh.TotalRatings)
	})

	t.Run("same ride can carry one driver and one passenger rating per pair", func(t *testing.T) {
		f := newFixtures(t)
		rater := f.createUser(t, "rater@state.edu")
		rated := f.createUser(t, "rated@state.edu")
		rideID := primitive.NewObjectID()

		_, err := f.ratingService.RecordRating(ctx, rater.ID, &RecordRatingRequest{
			RatedUserID: rated.ID, RideID: rideID, Score: 5, Type: models.RatingTypeDriver,
		})
		require.NoError(t, err)

		_, err = f.ratingService.RecordRating(ctx, rater.ID, &RecordRatingRequest{
			RatedUserID: rated.ID, RideID: rideID, Score: 3, Type: models.RatingTypePassenger,
		})
		require.NoError(t, err)

		fresh, err := f.users.GetByID(ctx, rated.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, fresh.TotalRatings)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixtures(t)
		rater := f.createUser(t, "rater@state.edu")
		rated := f.createUser(t, "rated@state.edu")

		for _, score := range []int{0, 6, -1} {
			_, err := f.ratingService.RecordRating(ctx, rater.ID, &RecordRatingRequest{
				RatedUserID: rated.ID,
				RideID:      primitive.NewObjectID(),
				Score:       score,
				Type:        models.RatingTypeDriver,
			})
			assert.ErrorIs(t, err, models.ErrInvalidScore)
		}

		_, err := f.ratingService.RecordRating(ctx, rater.ID, &RecordRatingRequest{
			RatedUserID: rater.ID,
			RideID:      primitive.NewObjectID(),
			Score:       5,
			Type:        models.RatingTypeDriver,
		})
		assert.ErrorIs(t, err, models.ErrInvalidArgument, "self-rating")

		_, err = f.ratingService.RecordRating(ctx, rater.ID, &RecordRatingRequest{
			RatedUserID: primitive.NewObjectID(),
			RideID:      primitive.NewObjectID(),
			Score:       5,
			Type:        models.RatingTypeDriver,
		})
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}
