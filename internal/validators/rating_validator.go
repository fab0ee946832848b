package validators

import (
	"campuspool/internal/services"
	"campuspool/internal/utils"
)

func ValidateRecordRating(req *services.RecordRatingRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.Score < utils.MinRatingScore || req.Score > utils.MaxRatingScore {
		errors = append(errors, ValidationError{
			Field:   "score",
			Message: "Rating must be between 1 and 5",
		})
	}

	return errors
}
