package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"campuspool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixtures, *models.User, *models.User) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")
		return f, driver, rider
	}

	t.Run("excludes own rides and rides already joined", func(t *testing.T) {
		f, driver, rider := setup(t)

		own := f.createRide(t, rider.ID, rideOptions{})
		joined := f.createRide(t, driver.ID, rideOptions{})
		open := f.createRide(t, driver.ID, rideOptions{})

		_, err := f.rideService.RequestToJoin(ctx, rider.ID, joined.ID, nil)
		require.NoError(t, err)
		requests, err := f.requests.GetByRide(ctx, joined.ID)
		require.NoError(t, err)
		_, err = f.rideService.ApproveRequest(ctx, driver.ID, requests[0].ID)
		require.NoError(t, err)

		results, err := f.rideService.Search(ctx, rider.ID, nil)
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, open.ID, results[0].ID)
		for _, ride := range results {
			assert.NotEqual(t, own.ID, ride.ID)
			assert.NotEqual(t, joined.ID, ride.ID)
		}
	})

	t.Run("city match is case-insensitive and covers the address", func(t *testing.T) {
		f, driver, rider := setup(t)

		austin := f.createRide(t, driver.ID, rideOptions{fromCity: "Austin", toCity: "Dallas"})
		f.createRide(t, driver.ID, rideOptions{fromCity: "Houston", toCity: "Dallas"})

		results, err := f.rideService.Search(ctx, rider.ID, &SearchCriteria{FromCity: "austin"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, austin.ID, results[0].ID)

		// "aust" also hits the "Austin Campus" address.
		results, err = f.rideService.Search(ctx, rider.ID, &SearchCriteria{FromCity: "AUST"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("criteria are conjunctive", func(t *testing.T) {
		f, driver, rider := setup(t)

		match := f.createRide(t, driver.ID, rideOptions{fromCity: "Austin", toCity: "Dallas", pricePerSeat: 10})
		f.createRide(t, driver.ID, rideOptions{fromCity: "Austin", toCity: "Dallas", pricePerSeat: 50})
		f.createRide(t, driver.ID, rideOptions{fromCity: "Austin", toCity: "Waco", pricePerSeat: 10})

		maxCost := 20.0
		results, err := f.rideService.Search(ctx, rider.ID, &SearchCriteria{
			FromCity:       "Austin",
			ToCity:         "Dallas",
			MaxCostPerSeat: &maxCost,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, match.ID, results[0].ID)
	})

	t.Run("departure date matches by calendar day", func(t *testing.T) {
		f, driver, rider := setup(t)

		day := time.Date(2027, time.May, 10, 9, 0, 0, 0, time.UTC)
		otherDay := day.AddDate(0, 0, 3)
		wanted := f.createRide(t, driver.ID, rideOptions{departure: day})
		f.createRide(t, driver.ID, rideOptions{departure: otherDay})

		// A different time on the same day still matches.
		sameDay := day.Add(6 * time.Hour)
		results, err := f.rideService.Search(ctx, rider.ID, &SearchCriteria{DepartureDate: &sameDay})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, wanted.ID, results[0].ID)
	})

	t.Run("seat requirement checks remaining capacity", func(t *testing.T) {
		f, driver, rider := setup(t)
		third := f.createUser(t, "third@state.edu")

		ride := f.createRide(t, driver.ID, rideOptions{capacity: 2})

		_, err := f.rideService.RequestToJoin(ctx, third.ID, ride.ID, nil)
		require.NoError(t, err)
		requests, err := f.requests.GetByRide(ctx, ride.ID)
		require.NoError(t, err)
		_, err = f.rideService.ApproveRequest(ctx, driver.ID, requests[0].ID)
		require.NoError(t, err)

		results, err := f.rideService.Search(ctx, rider.ID, &SearchCriteria{MinSeats: 2})
		require.NoError(t, err)
		assert.Empty(t, results)

		results, err = f.rideService.Search(ctx, rider.ID, &SearchCriteria{MinSeats: 1})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("gender preference passes on any or exact match", func(t *testing.T) {
		f, driver, rider := setup(t)

		f.createRide(t, driver.ID, rideOptions{genderPref: models.GenderPreferenceAny})
		f.createRide(t, driver.ID, rideOptions{genderPref: models.GenderPreferenceFemale})
		f.createRide(t, driver.ID, rideOptions{genderPref: models.GenderPreferenceMale})

		female := models.GenderPreferenceFemale
		results, err := f.rideService.Search(ctx, rider.ID, &SearchCriteria{GenderPreference: &female})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("results keep departure ascending order", func(t *testing.T) {
		f, driver, rider := setup(t)

		later := f.createRide(t, driver.ID, rideOptions{departure: time.Now().Add(48 * time.Hour)})
		sooner := f.createRide(t, driver.ID, rideOptions{departure: time.Now().Add(12 * time.Hour)})

		results, err := f.rideService.Search(ctx, rider.ID, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, sooner.ID, results[0].ID)
		assert.Equal(t, later.ID, results[1].ID)
	})
}

func TestRequestToJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request and notifies the owner", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{})

		request, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, &JoinRideRequest{Message: "room for one?"})
		require.NoError(t, err)

		assert.Equal(t, models.RequestStatusPending, request.Status)
		assert.Equal(t, 1, request.RequestedSeats)
		assert.Equal(t, "room for one?", request.Message)
		assert.Equal(t, 1, f.countNotifications(t, driver.ID, models.NotificationTypeRideRequest))
	})

	t.Run("second pending request is rejected", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{})

		_, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
		require.NoError(t, err)

		_, err = f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
		assert.ErrorIs(t, err, models.ErrDuplicateRequest)
	})

	t.Run("error taxonomy", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")

		t.Run("unknown ride", func(t *testing.T) {
			_, err := f.rideService.RequestToJoin(ctx, rider.ID, primitive.NewObjectID(), nil)
			assert.ErrorIs(t, err, models.ErrRideNotFound)
		})

		t.Run("own ride", func(t *testing.T) {
			ride := f.createRide(t, driver.ID, rideOptions{})
			_, err := f.rideService.RequestToJoin(ctx, driver.ID, ride.ID, nil)
			assert.ErrorIs(t, err, models.ErrOwnRide)
		})

		t.Run("seeking rides take no join requests", func(t *testing.T) {
			ride := f.createRide(t, driver.ID, rideOptions{kind: models.RideKindSeeking})
			_, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
			assert.ErrorIs(t, err, models.ErrNotRideOffer)
		})

		t.Run("cancelled ride", func(t *testing.T) {
			ride := f.createRide(t, driver.ID, rideOptions{})
			require.NoError(t, f.rideService.CancelRide(ctx, driver.ID, ride.ID))
			_, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
			assert.ErrorIs(t, err, models.ErrRideNotActive)
		})

		t.Run("not enough seats", func(t *testing.T) {
			ride := f.createRide(t, driver.ID, rideOptions{capacity: 2})
			_, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, &JoinRideRequest{Seats: 3})
			assert.ErrorIs(t, err, models.ErrNoCapacity)
		})
	})
}

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("approval adds the passenger and notifies the requester", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{capacity: 2})

		request, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
		require.NoError(t, err)

		approved, err := f.rideService.ApproveRequest(ctx, driver.ID, request.ID)
		require.NoError(t, err)

		assert.Equal(t, models.RequestStatusApproved, approved.Status)
		require.NotNil(t, approved.RespondedAt)

		fresh, err := f.rides.GetByID(ctx, ride.ID)
		require.NoError(t, err)
		assert.True(t, fresh.HasPassenger(rider.ID))
		assert.Equal(t, 1, fresh.AvailableSeats())

		assert.Equal(t, 1, f.countNotifications(t, rider.ID, models.NotificationTypeRideApproved))
	})

	t.Run("only the ride owner may approve", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")
		stranger := f.createUser(t, "stranger@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{})

		request, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
		require.NoError(t, err)

		_, err = f.rideService.ApproveRequest(ctx, stranger.ID, request.ID)
		assert.ErrorIs(t, err, models.ErrNotRideOwner)
	})

	t.Run("terminal requests stay terminal", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{})

		request, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
		require.NoError(t, err)

		_, err = f.rideService.ApproveRequest(ctx, driver.ID, request.ID)
		require.NoError(t, err)

		_, err = f.rideService.ApproveRequest(ctx, driver.ID, request.ID)
		assert.ErrorIs(t, err, models.ErrNotPending)

		_, err = f.rideService.RejectRequest(ctx, driver.ID, request.ID)
		assert.ErrorIs(t, err, models.ErrNotPending)
	})

	t.Run("losing the capacity race leaves the request pending", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		first := f.createUser(t, "first@state.edu")
		second := f.createUser(t, "second@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{capacity: 1})

		requestA, err := f.rideService.RequestToJoin(ctx, first.ID, ride.ID, nil)
		require.NoError(t, err)
		requestB, err := f.rideService.RequestToJoin(ctx, second.ID, ride.ID, nil)
		require.NoError(t, err)

		_, err = f.rideService.ApproveRequest(ctx, driver.ID, requestA.ID)
		require.NoError(t, err)

		_, err = f.rideService.ApproveRequest(ctx, driver.ID, requestB.ID)
		assert.ErrorIs(t, err, models.ErrNoCapacity)

		fresh, err := f.requests.GetByID(ctx, requestB.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusPending, fresh.Status)
	})

	t.Run("concurrent approvals never oversell the ride", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")

		const capacity = 2
		const contenders = 5

		ride := f.createRide(t, driver.ID, rideOptions{capacity: capacity})

		requestIDs := make([]primitive.ObjectID, contenders)
		for i := 0; i < contenders; i++ {
			rider := f.createUser(t, "rider@state.edu")
			request, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
			require.NoError(t, err)
			requestIDs[i] = request.ID
		}

		var wg sync.WaitGroup
		errs := make([]error, contenders)
		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.rideService.ApproveRequest(ctx, driver.ID, requestIDs[i])
			}(i)
		}
		wg.Wait()

		approvals := 0
		for _, err := range errs {
			if err == nil {
				approvals++
			} else {
				assert.ErrorIs(t, err, models.ErrNoCapacity)
			}
		}
		assert.Equal(t, capacity, approvals)

		fresh, err := f.rides.GetByID(ctx, ride.ID)
		require.NoError(t, err)
		assert.Len(t, fresh.PassengerIDs, capacity)
		assert.Equal(t, 0, fresh.AvailableSeats())
	})
}

func TestRejectRequest(t *testing.T) {
	ctx := context.Background()

	f := newFixtures(t)
	driver := f.createUser(t, "driver@state.edu")
	rider := f.createUser(t, "rider@state.edu")
	ride := f.createRide(t, driver.ID, rideOptions{})

	request, err := f.rideService.RequestToJoin(ctx, rider.ID, ride.ID, nil)
	require.NoError(t, err)

	rejected, err := f.rideService.RejectRequest(ctx, driver.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, rejected.Status)
	assert.Equal(t, 1, f.countNotifications(t, rider.ID, models.NotificationTypeRideRejected))

	// Rejection never touches the passenger list.
	fresh, err := f.rides.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.PassengerIDs)

	_, err = f.rideService.ApproveRequest(ctx, driver.ID, request.ID)
	assert.ErrorIs(t, err, models.ErrNotPending)
}

func TestRideLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("terminal statuses are forward-only", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{})

		require.NoError(t, f.rideService.CompleteRide(ctx, driver.ID, ride.ID))

		err := f.rideService.CancelRide(ctx, driver.ID, ride.ID)
		assert.ErrorIs(t, err, models.ErrRideNotActive)

		err = f.rideService.CompleteRide(ctx, driver.ID, ride.ID)
		assert.ErrorIs(t, err, models.ErrRideNotActive)

		fresh, err := f.rides.GetByID(ctx, ride.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RideStatusCompleted, fresh.Status)
		assert.NotNil(t, fresh.CompletedAt)
	})

	t.Run("only the owner can close a ride", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		stranger := f.createUser(t, "stranger@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{})

		err := f.rideService.CancelRide(ctx, stranger.ID, ride.ID)
		assert.ErrorIs(t, err, models.ErrNotRideOwner)
	})

	t.Run("cancellation reaches passengers and pending requesters", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		passenger := f.createUser(t, "passenger@state.edu")
		waiting := f.createUser(t, "waiting@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{capacity: 3})

		request, err := f.rideService.RequestToJoin(ctx, passenger.ID, ride.ID, nil)
		require.NoError(t, err)
		_, err = f.rideService.ApproveRequest(ctx, driver.ID, request.ID)
		require.NoError(t, err)

		_, err = f.rideService.RequestToJoin(ctx, waiting.ID, ride.ID, nil)
		require.NoError(t, err)

		require.NoError(t, f.rideService.CancelRide(ctx, driver.ID, ride.ID))

		assert.Equal(t, 1, f.countNotifications(t, passenger.ID, models.NotificationTypeRideCancelled))
		assert.Equal(t, 1, f.countNotifications(t, waiting.ID, models.NotificationTypeRideCancelled))
		assert.Equal(t, 0, f.countNotifications(t, driver.ID, models.NotificationTypeRideCancelled))
	})
}

func TestCreateRideValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)
	driver := f.createUser(t, "driver@state.edu")

	cases := []struct {
		name string
		req  CreateRideRequest
	}{
		{"unknown kind", CreateRideRequest{Kind: "carpool", SeatCapacity: 2}},
		{"zero capacity", CreateRideRequest{Kind: models.RideKindOffer, SeatCapacity: 0}},
		{"capacity above limit", CreateRideRequest{Kind: models.RideKindOffer, SeatCapacity: 9}},
		{"negative price", CreateRideRequest{Kind: models.RideKindOffer, SeatCapacity: 2, PricePerSeat: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.rideService.CreateRide(ctx, driver.ID, &tc.req)
			assert.ErrorIs(t, err, models.ErrInvalidArgument)
		})
	}
}
