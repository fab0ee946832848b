package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// RideRequest is a join request from a passenger against a ride offer. It is
// distinct from a Ride of kind "request", which advertises a rider's need.
type RideRequest struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RideID         primitive.ObjectID `json:"ride_id" bson:"ride_id" validate:"required"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Status         RequestStatus      `json:"status" bson:"status" default:"pending"`
	RequestedSeats int                `json:"requested_seats" bson:"requested_seats" validate:"min=1,max=8"`
	Message        string             `json:"message" bson:"message" validate:"omitempty,max=500"`
	RespondedAt    *time.Time         `json:"responded_at" bson:"responded_at"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether the request can no longer transition.
func (r *RideRequest) IsTerminal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}
