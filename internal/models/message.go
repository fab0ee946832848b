package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is immutable once created except for the read flag.
type Message struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   primitive.ObjectID `json:"sender_id" bson:"sender_id" validate:"required"`
	ReceiverID primitive.ObjectID `json:"receiver_id" bson:"receiver_id" validate:"required"`
	RideID     primitive.ObjectID `json:"ride_id" bson:"ride_id" validate:"required"`
	Content    string             `json:"content" bson:"content" validate:"required,min=1,max=1000"`
	IsRead     bool               `json:"is_read" bson:"is_read" default:"false"`
	ReadAt     *time.Time         `json:"read_at" bson:"read_at"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
