package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"campuspool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageRepository struct {
	mu       sync.Mutex
	messages map[primitive.ObjectID]*models.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{
		messages: make(map[primitive.ObjectID]*models.Message),
	}
}

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()

	clone := *message
	r.messages[message.ID] = &clone

	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	message, ok := r.messages[id]
	if !ok {
		return nil, models.ErrMessageNotFound
	}

	clone := *message
	return &clone, nil
}

func (r *MessageRepository) GetConversation(ctx context.Context, rideID, userA, userB primitive.ObjectID) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var messages []*models.Message
	for _, message := range r.messages {
		if message.RideID != rideID {
			continue
		}
		between := (message.SenderID == userA && message.ReceiverID == userB) ||
			(message.SenderID == userB && message.ReceiverID == userA)
		if between {
			clone := *message
			messages = append(messages, &clone)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id, receiverID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message, ok := r.messages[id]
	if !ok {
		return models.ErrMessageNotFound
	}
	if message.ReceiverID != receiverID || message.IsRead {
		return nil
	}

	now := time.Now()
	message.IsRead = true
	message.ReadAt = &now

	return nil
}

func (r *MessageRepository) MarkConversationRead(ctx context.Context, rideID, senderID, receiverID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, message := range r.messages {
		if message.RideID == rideID && message.SenderID == senderID &&
			message.ReceiverID == receiverID && !message.IsRead {
			message.IsRead = true
			message.ReadAt = &now
		}
	}

	return nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, message := range r.messages {
		if message.ReceiverID == userID && !message.IsRead {
			count++
		}
	}

	return count, nil
}
