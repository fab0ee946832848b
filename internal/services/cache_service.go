package services

import (
	"context"
	"time"

	"campuspool/internal/models"
	"campuspool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CacheService interface {
	// Basic cache operations
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Application-specific cache operations
	CacheUser(ctx context.Context, user *models.User) error
	GetCachedUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	InvalidateUser(ctx context.Context, userID primitive.ObjectID) error

	CacheRide(ctx context.Context, ride *models.Ride) error
	GetCachedRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error)
	InvalidateRide(ctx context.Context, rideID primitive.ObjectID) error

	Ping(ctx context.Context) error
}

type RedisClient interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

type cacheService struct {
	client     RedisClient
	logger     *logger.Logger
	defaultTTL time.Duration
	keyPrefix  string
}

func NewCacheService(client RedisClient, log *logger.Logger, defaultTTL time.Duration) CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 15 * time.Minute
	}
	return &cacheService{
		client:     client,
		logger:     log,
		defaultTTL: defaultTTL,
		keyPrefix:  "campuspool:",
	}
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return s.client.Get(ctx, s.keyPrefix+key, dest)
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = s.defaultTTL
	}
	return s.client.Set(ctx, s.keyPrefix+key, value, expiration)
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.keyPrefix + key
	}
	return s.client.Delete(ctx, prefixed...)
}

func (s *cacheService) CacheUser(ctx context.Context, user *models.User) error {
	err := s.Set(ctx, userKey(user.ID), user, s.defaultTTL)
	if err != nil && s.logger != nil {
		s.logger.WithField("user_id", user.ID.Hex()).WithError(err).Debug("failed to cache user")
	}
	return err
}

func (s *cacheService) GetCachedUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.Get(ctx, userKey(userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *cacheService) InvalidateUser(ctx context.Context, userID primitive.ObjectID) error {
	return s.Delete(ctx, userKey(userID))
}

func (s *cacheService) CacheRide(ctx context.Context, ride *models.Ride) error {
	err := s.Set(ctx, rideKey(ride.ID), ride, s.defaultTTL)
	if err != nil && s.logger != nil {
		s.logger.WithField("ride_id", ride.ID.Hex()).WithError(err).Debug("failed to cache ride")
	}
	return err
}

func (s *cacheService) GetCachedRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	var ride models.Ride
	if err := s.Get(ctx, rideKey(rideID), &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

func (s *cacheService) InvalidateRide(ctx context.Context, rideID primitive.ObjectID) error {
	return s.Delete(ctx, rideKey(rideID))
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func userKey(id primitive.ObjectID) string {
	return "user:" + id.Hex()
}

func rideKey(id primitive.ObjectID) string {
	return "ride:" + id.Hex()
}
