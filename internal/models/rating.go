package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingType string

const (
	RatingTypeDriver    RatingType = "driver"
	RatingTypePassenger RatingType = "passenger"
)

// Rating is unique per (rater, rated user, ride, type).
type Rating struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RaterID   primitive.ObjectID `json:"rater_id" bson:"rater_id" validate:"required"`
	RatedID   primitive.ObjectID `json:"rated_id" bson:"rated_id" validate:"required"`
	RideID    primitive.ObjectID `json:"ride_id" bson:"ride_id" validate:"required"`
	Score     int                `json:"score" bson:"score" validate:"required,min=1,max=5"`
	Comment   string             `json:"comment" bson:"comment" validate:"omitempty,max=500"`
	Type      RatingType         `json:"type" bson:"type" validate:"required,oneof=driver passenger"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
