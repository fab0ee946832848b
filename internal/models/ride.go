package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideKind string
type RideStatus string
type GenderPreference string

const (
	// RideKindOffer is a driver advertising seats; RideKindSeeking is a rider
	// advertising a need. Only offers accept join requests.
	RideKindOffer   RideKind = "offer"
	RideKindSeeking RideKind = "request"

	RideStatusActive    RideStatus = "active"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"

	GenderPreferenceMale   GenderPreference = "male"
	GenderPreferenceFemale GenderPreference = "female"
	GenderPreferenceAny    GenderPreference = "any"
)

type RidePreferences struct {
	SmokingAllowed   bool             `json:"smoking_allowed" bson:"smoking_allowed" default:"false"`
	PetsAllowed      bool             `json:"pets_allowed" bson:"pets_allowed" default:"false"`
	MusicAllowed     bool             `json:"music_allowed" bson:"music_allowed" default:"true"`
	GenderPreference GenderPreference `json:"gender_preference" bson:"gender_preference" default:"any"`
}

type Ride struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID   `json:"owner_id" bson:"owner_id" validate:"required"`
	Kind          RideKind             `json:"kind" bson:"kind" validate:"required,oneof=offer request"`
	Status        RideStatus           `json:"status" bson:"status" default:"active"`
	Origin        Location             `json:"origin" bson:"origin" validate:"required"`
	Destination   Location             `json:"destination" bson:"destination" validate:"required"`
	DepartureTime time.Time            `json:"departure_time" bson:"departure_time" validate:"required"`
	SeatCapacity  int                  `json:"seat_capacity" bson:"seat_capacity" validate:"required,min=1,max=8"`
	PricePerSeat  float64              `json:"price_per_seat" bson:"price_per_seat" validate:"min=0"`
	Description   string               `json:"description" bson:"description" validate:"omitempty,max=1000"`
	Preferences   RidePreferences      `json:"preferences" bson:"preferences"`
	PassengerIDs  []primitive.ObjectID `json:"passenger_ids" bson:"passenger_ids"`
	CompletedAt   *time.Time           `json:"completed_at" bson:"completed_at"`
	CancelledAt   *time.Time           `json:"cancelled_at" bson:"cancelled_at"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

// AvailableSeats is the remaining capacity, never capacity itself.
func (r *Ride) AvailableSeats() int {
	return r.SeatCapacity - len(r.PassengerIDs)
}

func (r *Ride) HasPassenger(userID primitive.ObjectID) bool {
	for _, id := range r.PassengerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
