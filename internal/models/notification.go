package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeRideRequest   NotificationType = "ride_request"
	NotificationTypeRideApproved  NotificationType = "ride_approved"
	NotificationTypeRideRejected  NotificationType = "ride_rejected"
	NotificationTypeRideCancelled NotificationType = "ride_cancelled"
	NotificationTypeMessage       NotificationType = "message"
	NotificationTypeRating        NotificationType = "rating"
)

// Notification is append-only; only the read flag mutates after creation.
// Data is an opaque payload interpreted by clients, not by the server.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Type      NotificationType   `json:"type" bson:"type" validate:"required"`
	Title     string             `json:"title" bson:"title" validate:"required"`
	Message   string             `json:"message" bson:"message" validate:"required"`
	Data      map[string]string  `json:"data" bson:"data"`
	IsRead    bool               `json:"is_read" bson:"is_read" default:"false"`
	ReadAt    *time.Time         `json:"read_at" bson:"read_at"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
