package models

import "errors"

// Business errors are sentinel values so callers can branch on them and map
// each to a distinct user-facing message. Anything not in this list is treated
// as an unexpected persistence failure.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUserNotFound     = errors.New("user not found")
	ErrRideNotFound     = errors.New("ride not found")
	ErrRequestNotFound  = errors.New("ride request not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrNotifNotFound    = errors.New("notification not found")
	ErrNoCapacity       = errors.New("no seats available")
	ErrDuplicateRequest = errors.New("a pending request already exists for this ride")
	ErrDuplicateRating  = errors.New("rating already submitted for this ride")
	ErrNotPending       = errors.New("ride request is no longer pending")
	ErrInvalidScore     = errors.New("rating score must be between 1 and 5")
	ErrDomainNotAllowed = errors.New("email domain is not on the institutional allow-list")
	ErrNotRideOwner     = errors.New("user does not own this ride")
	ErrRideNotActive    = errors.New("ride is not active")
	ErrNotRideOffer     = errors.New("ride is not an offer")
	ErrOwnRide          = errors.New("cannot join your own ride")
)
