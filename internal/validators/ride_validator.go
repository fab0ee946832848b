package validators

import (
	"strings"
	"time"

	"campuspool/internal/services"
	"campuspool/internal/utils"
)

// ValidateCreateRide layers cross-field checks on top of the struct tags.
func ValidateCreateRide(req *services.CreateRideRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if strings.TrimSpace(req.Origin.City) == "" && strings.TrimSpace(req.Origin.Address) == "" {
		errors = append(errors, ValidationError{
			Field:   "origin",
			Message: "Origin needs at least a city or an address",
		})
	}
	if strings.TrimSpace(req.Destination.City) == "" && strings.TrimSpace(req.Destination.Address) == "" {
		errors = append(errors, ValidationError{
			Field:   "destination",
			Message: "Destination needs at least a city or an address",
		})
	}

	if sameCity(req.Origin.City, req.Destination.City) && sameCity(req.Origin.Address, req.Destination.Address) {
		errors = append(errors, ValidationError{
			Field:   "destination",
			Message: "Origin and destination must be different",
		})
	}

	if !req.DepartureTime.IsZero() && req.DepartureTime.Before(time.Now()) {
		errors = append(errors, ValidationError{
			Field:   "departure_time",
			Message: "Departure time must be in the future",
		})
	}

	if req.SeatCapacity < 1 || req.SeatCapacity > utils.MaxSeatCapacity {
		errors = append(errors, ValidationError{
			Field:   "seat_capacity",
			Message: "Seat capacity must be between 1 and 8",
		})
	}

	return errors
}

func ValidateSearchCriteria(criteria *services.SearchCriteria) ValidationErrors {
	var errors ValidationErrors

	if criteria.MaxCostPerSeat != nil && *criteria.MaxCostPerSeat < 0 {
		errors = append(errors, ValidationError{
			Field:   "max_cost_per_seat",
			Message: "Maximum cost per seat cannot be negative",
		})
	}
	if criteria.MinSeats < 0 || criteria.MinSeats > utils.MaxSeatCapacity {
		errors = append(errors, ValidationError{
			Field:   "min_seats",
			Message: "Requested seat count must be between 0 and 8",
		})
	}
	if criteria.Kind != "" && criteria.Kind != "offer" && criteria.Kind != "request" {
		errors = append(errors, ValidationError{
			Field:   "kind",
			Message: "Ride kind must be offer or request",
		})
	}

	return errors
}

func ValidateJoinRide(req *services.JoinRideRequest) ValidationErrors {
	var errors ValidationErrors

	if req.Seats < 0 || req.Seats > utils.MaxSeatCapacity {
		errors = append(errors, ValidationError{
			Field:   "seats",
			Message: "Requested seats must be between 1 and 8",
		})
	}
	if len(req.Message) > utils.MaxRequestMessage {
		errors = append(errors, ValidationError{
			Field:   "message",
			Message: "Message must be at most 500 characters",
		})
	}

	return errors
}

func sameCity(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return a != "" && a == b
}
