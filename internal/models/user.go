package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string
type Gender string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type User struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName        string             `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName         string             `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Email            string             `json:"email" bson:"email" validate:"required,email"`
	Phone            string             `json:"phone" bson:"phone"`
	University       string             `json:"university" bson:"university"`
	StudentID        string             `json:"student_id" bson:"student_id"`
	Gender           Gender             `json:"gender" bson:"gender"`
	ProfilePicture   string             `json:"profile_picture" bson:"profile_picture"`
	Bio              string             `json:"bio" bson:"bio"`
	Status           UserStatus         `json:"status" bson:"status" default:"active"`
	IsVerified       bool               `json:"is_verified" bson:"is_verified" default:"false"`
	Rating           float64            `json:"rating" bson:"rating" default:"0"`
	TotalRatings     int                `json:"total_ratings" bson:"total_ratings" default:"0"`
	FCMTokens        []string           `json:"-" bson:"fcm_tokens"`
	APNSTokens       []string           `json:"-" bson:"apns_tokens"`
	SMSNotifications bool               `json:"sms_notifications" bson:"sms_notifications" default:"false"`
	LastActiveAt     *time.Time         `json:"last_active_at" bson:"last_active_at"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// PublicProfile is what other riders see when browsing a user.
type PublicProfile struct {
	ID             primitive.ObjectID `json:"id"`
	FirstName      string             `json:"first_name"`
	LastName       string             `json:"last_name"`
	University     string             `json:"university"`
	Gender         Gender             `json:"gender"`
	ProfilePicture string             `json:"profile_picture"`
	Bio            string             `json:"bio"`
	IsVerified     bool               `json:"is_verified"`
	Rating         float64            `json:"rating"`
	TotalRatings   int                `json:"total_ratings"`
	CreatedAt      time.Time          `json:"created_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) ToPublicProfile() *PublicProfile {
	return &PublicProfile{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		University:     u.University,
		Gender:         u.Gender,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		IsVerified:     u.IsVerified,
		Rating:         u.Rating,
		TotalRatings:   u.TotalRatings,
		CreatedAt:      u.CreatedAt,
	}
}
