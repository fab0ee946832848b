package services

import (
	"context"
	"io"
	"testing"
	"time"

	"campuspool/internal/models"
	"campuspool/internal/repositories/memory"
	"campuspool/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "text",
	})
	require.NoError(t, err)
	log.SetOutput(io.Discard)

	return log
}

type fixtures struct {
	users         *memory.UserRepository
	rides         *memory.RideRepository
	requests      *memory.RideRequestRepository
	ratings       *memory.RatingRepository
	messages      *memory.MessageRepository
	notifications *memory.NotificationRepository

	notificationService NotificationService
	rideService         RideService
	ratingService       RatingService
	messageService      MessageService
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	f := &fixtures{
		users:         memory.NewUserRepository(),
		rides:         memory.NewRideRepository(),
		requests:      memory.NewRideRequestRepository(),
		ratings:       memory.NewRatingRepository(),
		messages:      memory.NewMessageRepository(),
		notifications: memory.NewNotificationRepository(),
	}

	log := newTestLogger(t)
	f.notificationService = NewNotificationService(f.notifications, f.users, nil, nil, nil, nil, "", log)
	f.rideService = NewRideService(f.rides, f.requests, f.notificationService, log)
	f.ratingService = NewRatingService(f.ratings, f.users, f.notificationService, log)
	f.messageService = NewMessageService(f.messages, f.rides, f.notificationService, log)

	return f
}

func (f *fixtures) createUser(t *testing.T, email string) *models.User {
	t.Helper()

	user := &models.User{
		FirstName: "Test",
		LastName:  "Student",
		Email:     email,
		Status:    models.UserStatusActive,
	}
	require.NoError(t, f.users.Create(context.Background(), user))

	return user
}

type rideOptions struct {
	kind         models.RideKind
	fromCity     string
	toCity       string
	departure    time.Time
	capacity     int
	pricePerSeat float64
	genderPref   models.GenderPreference
}

func (f *fixtures) createRide(t *testing.T, ownerID primitive.ObjectID, opts rideOptions) *models.Ride {
	t.Helper()

	if opts.kind == "" {
		opts.kind = models.RideKindOffer
	}
	if opts.fromCity == "" {
		opts.fromCity = "Austin"
	}
	if opts.toCity == "" {
		opts.toCity = "Dallas"
	}
	if opts.departure.IsZero() {
		opts.departure = time.Now().Add(24 * time.Hour)
	}
	if opts.capacity == 0 {
		opts.capacity = 3
	}
	if opts.genderPref == "" {
		opts.genderPref = models.GenderPreferenceAny
	}

	ride, err := f.rideService.CreateRide(context.Background(), ownerID, &CreateRideRequest{
		Kind:          opts.kind,
		Origin:        models.Location{Address: opts.fromCity + " Campus", City: opts.fromCity},
		Destination:   models.Location{Address: opts.toCity + " Downtown", City: opts.toCity},
		DepartureTime: opts.departure,
		SeatCapacity:  opts.capacity,
		PricePerSeat:  opts.pricePerSeat,
		Preferences:   models.RidePreferences{GenderPreference: opts.genderPref},
	})
	require.NoError(t, err)

	return ride
}

func (f *fixtures) countNotifications(t *testing.T, userID primitive.ObjectID, notificationType models.NotificationType) int {
	t.Helper()

	all, _, err := f.notifications.GetByUser(context.Background(), userID, nil)
	require.NoError(t, err)

	count := 0
	for _, n := range all {
		if n.Type == notificationType {
			count++
		}
	}
	return count
}
