package interfaces

import (
	"context"

	"campuspool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)

	// GetConversation returns the messages exchanged between two users about a
	// ride, oldest first (insertion order is the only ordering guarantee).
	GetConversation(ctx context.Context, rideID, userA, userB primitive.ObjectID) ([]*models.Message, error)

	// MarkRead flips the read flag; only the receiver may do so.
	MarkRead(ctx context.Context, id, receiverID primitive.ObjectID) error
	MarkConversationRead(ctx context.Context, rideID, senderID, receiverID primitive.ObjectID) error

	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
