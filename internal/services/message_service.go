package services

import (
	"context"
	"strings"

	"campuspool/internal/models"
	"campuspool/internal/repositories/interfaces"
	"campuspool/internal/utils"
	"campuspool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageService interface {
	// SendMessage appends to the conversation; messages are never edited or
	// deleted afterwards.
	SendMessage(ctx context.Context, senderID primitive.ObjectID, req *SendMessageRequest) (*models.Message, error)

	GetConversation(ctx context.Context, userID, counterpartID, rideID primitive.ObjectID) ([]*models.Message, error)
	MarkRead(ctx context.Context, userID, messageID primitive.ObjectID) error
	MarkConversationRead(ctx context.Context, userID, counterpartID, rideID primitive.ObjectID) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type SendMessageRequest struct {
	ReceiverID primitive.ObjectID `json:"receiver_id" validate:"required"`
	RideID     primitive.ObjectID `json:"ride_id" validate:"required"`
	Content    string             `json:"content" validate:"required,min=1,max=1000"`
}

type messageService struct {
	messageRepo         interfaces.MessageRepository
	rideRepo            interfaces.RideRepository
	notificationService NotificationService
	logger              *logger.Logger
}

func NewMessageService(
	messageRepo interfaces.MessageRepository,
	rideRepo interfaces.RideRepository,
	notificationService NotificationService,
	log *logger.Logger,
) MessageService {
	return &messageService{
		messageRepo:         messageRepo,
		rideRepo:            rideRepo,
		notificationService: notificationService,
		logger:              log,
	}
}

func (s *messageService) SendMessage(ctx context.Context, senderID primitive.ObjectID, req *SendMessageRequest) (*models.Message, error) {
	if req == nil || senderID.IsZero() || req.ReceiverID.IsZero() {
		return nil, models.ErrInvalidArgument
	}
	if senderID == req.ReceiverID {
		return nil, models.ErrInvalidArgument
	}

	content := strings.TrimSpace(req.Content)
	if content == "" || len(content) > utils.MaxMessageLength {
		return nil, models.ErrInvalidArgument
	}

	// The ride anchors the conversation; a dangling ride id is rejected.
	if _, err := s.rideRepo.GetByID(ctx, req.RideID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		RideID:     req.RideID,
		Content:    content,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_, err := s.notificationService.Notify(ctx, &NotifyRequest{
			UserID:  req.ReceiverID,
			Type:    models.NotificationTypeMessage,
			Title:   "New message",
			Message: content,
			Data: map[string]string{
				"ride_id":   req.RideID.Hex(),
				"sender_id": senderID.Hex(),
			},
		})
		if err != nil {
			s.logger.WithUserID(req.ReceiverID).WithError(err).Warn("message notification failed")
		}
	}

	return message, nil
}

func (s *messageService) GetConversation(ctx context.Context, userID, counterpartID, rideID primitive.ObjectID) ([]*models.Message, error) {
	return s.messageRepo.GetConversation(ctx, rideID, userID, counterpartID)
}

func (s *messageService) MarkRead(ctx context.Context, userID, messageID primitive.ObjectID) error {
	return s.messageRepo.MarkRead(ctx, messageID, userID)
}

func (s *messageService) MarkConversationRead(ctx context.Context, userID, counterpartID, rideID primitive.ObjectID) error {
	return s.messageRepo.MarkConversationRead(ctx, rideID, counterpartID, userID)
}

func (s *messageService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}
