// Package memory holds in-memory repository implementations backed by
// mutex-guarded maps. They mirror the MongoDB semantics, including the
// atomic capacity guard, and back the service test suites.
package memory

import (
	"context"
	"sync"
	"time"

	"campuspool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[primitive.ObjectID]*models.User),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}

	return nil, models.ErrUserNotFound
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}

	for key, value := range updates {
		switch key {
		case "first_name":
			user.FirstName = value.(string)
		case "last_name":
			user.LastName = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "bio":
			user.Bio = value.(string)
		case "university":
			user.University = value.(string)
		case "gender":
			user.Gender = value.(models.Gender)
		case "profile_picture":
			user.ProfilePicture = value.(string)
		case "is_verified":
			user.IsVerified = value.(bool)
		case "sms_notifications":
			user.SMSNotifications = value.(bool)
		}
	}
	user.UpdatedAt = time.Now()

	return nil
}

func (r *UserRepository) UpdateRatingAggregate(ctx context.Context, id primitive.ObjectID, rating float64, totalRatings int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}

	user.Rating = rating
	user.TotalRatings = totalRatings
	user.UpdatedAt = time.Now()

	return nil
}

func (r *UserRepository) AddPushToken(ctx context.Context, id primitive.ObjectID, platform, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}

	if platform == "apns" {
		user.APNSTokens = appendUnique(user.APNSTokens, token)
	} else {
		user.FCMTokens = appendUnique(user.FCMTokens, token)
	}
	user.UpdatedAt = time.Now()

	return nil
}

func appendUnique(tokens []string, token string) []string {
	for _, t := range tokens {
		if t == token {
			return tokens
		}
	}
	return append(tokens, token)
}
