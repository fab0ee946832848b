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

type NotificationRepository struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*models.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[primitive.ObjectID]*models.Notification),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()

	clone := *notification
	r.notifications[notification.ID] = &clone

	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification, ok := r.notifications[id]
	if !ok {
		return nil, models.ErrNotifNotFound
	}

	clone := *notification
	return &clone, nil
}

func (r *NotificationRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var notifications []*models.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			clone := *notification
			notifications = append(notifications, &clone)
		}
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, int64(len(notifications)), nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification, ok := r.notifications[id]
	if !ok || notification.UserID != userID || notification.IsRead {
		return nil
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now

	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			notification.ReadAt = &now
		}
	}

	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}

	return count, nil
}
