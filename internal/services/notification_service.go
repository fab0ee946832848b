package services

import (
	"context"
	"fmt"

	"campuspool/internal/models"
	"campuspool/internal/repositories/interfaces"
	"campuspool/internal/utils"
	"campuspool/pkg/logger"
	"campuspool/pkg/push"
	"campuspool/pkg/sms"
	ws "campuspool/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	// Notify persists the notification and fans it out over every configured
	// channel. Channel failures are logged and swallowed; only the persist
	// step can fail the call.
	Notify(ctx context.Context, req *NotifyRequest) (*models.Notification, error)

	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type NotifyRequest struct {
	UserID  primitive.ObjectID      `json:"user_id" validate:"required"`
	Type    models.NotificationType `json:"type" validate:"required"`
	Title   string                  `json:"title" validate:"required,max=200"`
	Message string                  `json:"message" validate:"required,max=1000"`
	Data    map[string]string       `json:"data,omitempty"`
}

// RealtimePublisher is the slice of the websocket hub the service needs.
type RealtimePublisher interface {
	SendToUser(userID primitive.ObjectID, message ws.Message)
}

type notificationService struct {
	notificationRepo interfaces.NotificationRepository
	userRepo         interfaces.UserRepository
	realtime         RealtimePublisher
	fcm              push.PushProvider
	apns             push.PushProvider
	smsProvider      sms.SMSProvider
	smsFrom          string
	logger           *logger.Logger
}

func NewNotificationService(
	notificationRepo interfaces.NotificationRepository,
	userRepo interfaces.UserRepository,
	realtime RealtimePublisher,
	fcm push.PushProvider,
	apns push.PushProvider,
	smsProvider sms.SMSProvider,
	smsFrom string,
	log *logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		realtime:         realtime,
		fcm:              fcm,
		apns:             apns,
		smsProvider:      smsProvider,
		smsFrom:          smsFrom,
		logger:           log,
	}
}

func (s *notificationService) Notify(ctx context.Context, req *NotifyRequest) (*models.Notification, error) {
	if req == nil || req.UserID.IsZero() || req.Title == "" {
		return nil, models.ErrInvalidArgument
	}

	notification := &models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Data:    req.Data,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.fanOut(ctx, notification)

	return notification, nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	return s.notificationRepo.GetByUser(ctx, userID, params)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *notificationService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// fanOut delivers over websocket, FCM, APNS and SMS. Each channel is
// independent; one failing never blocks the others or the caller.
func (s *notificationService) fanOut(ctx context.Context, notification *models.Notification) {
	if s.realtime != nil {
		data := make(map[string]interface{}, len(notification.Data)+2)
		for k, v := range notification.Data {
			data[k] = v
		}
		data["title"] = notification.Title
		data["message"] = notification.Message

		s.realtime.SendToUser(notification.UserID, ws.Message{
			Type:      string(notification.Type),
			UserID:    notification.UserID,
			Timestamp: notification.CreatedAt.Unix(),
			Data:      data,
		})
	}

	if s.fcm == nil && s.apns == nil && s.smsProvider == nil {
		return
	}

	user, err := s.userRepo.GetByID(ctx, notification.UserID)
	if err != nil {
		s.logger.WithField("user_id", notification.UserID.Hex()).WithError(err).
			Warn("skipping push fan-out, recipient lookup failed")
		return
	}

	if s.fcm != nil {
		for _, token := range user.FCMTokens {
			s.sendPush(ctx, s.fcm, "fcm", token, notification)
		}
	}

	if s.apns != nil {
		for _, token := range user.APNSTokens {
			s.sendPush(ctx, s.apns, "apns", token, notification)
		}
	}

	if s.smsProvider != nil && user.SMSNotifications && user.Phone != "" {
		_, err := s.smsProvider.SendSMS(ctx, &sms.SMSRequest{
			To:      user.Phone,
			From:    s.smsFrom,
			Message: notification.Title + ": " + notification.Message,
			Type:    "transactional",
		})
		if err != nil {
			s.logger.WithField("user_id", user.ID.Hex()).WithError(err).
				Warn("sms notification failed")
		}
	}
}

func (s *notificationService) sendPush(ctx context.Context, provider push.PushProvider, channel, token string, notification *models.Notification) {
	_, err := provider.SendNotification(ctx, &push.NotificationRequest{
		Token: token,
		Title: notification.Title,
		Body:  notification.Message,
		Data:  notification.Data,
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"user_id": notification.UserID.Hex(),
			"channel": channel,
		}).WithError(err).Warn("push notification failed")
	}
}
