package models

type Location struct {
	Address   string   `json:"address" bson:"address" validate:"required,min=3,max=255"`
	City      string   `json:"city" bson:"city" validate:"required,max=100"`
	State     string   `json:"state" bson:"state" validate:"omitempty,max=100"`
	Latitude  *float64 `json:"latitude" bson:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" bson:"longitude" validate:"omitempty,min=-180,max=180"`
}
