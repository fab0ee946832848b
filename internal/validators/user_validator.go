package validators

import (
	"campuspool/internal/services"
	"campuspool/internal/utils"
)

func ValidateRegisterUser(req *services.RegisterUserRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if !utils.IsValidEmail(req.Email) {
		errors = append(errors, ValidationError{
			Field:   "email",
			Message: "Invalid email format",
		})
	}
	if !utils.IsValidName(req.FirstName) {
		errors = append(errors, ValidationError{
			Field:   "first_name",
			Message: "First name contains invalid characters",
		})
	}
	if !utils.IsValidName(req.LastName) {
		errors = append(errors, ValidationError{
			Field:   "last_name",
			Message: "Last name contains invalid characters",
		})
	}

	return errors
}

func ValidateUpdateProfile(req *services.UpdateProfileRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.Phone != nil && *req.Phone != "" && !utils.IsValidPhone(*req.Phone) {
		errors = append(errors, ValidationError{
			Field:   "phone",
			Message: "Invalid phone number format",
		})
	}

	return errors
}
