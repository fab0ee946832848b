package handlers

import (
	"errors"
	"net/http"

	"campuspool/internal/middleware"
	"campuspool/internal/models"
	"campuspool/internal/utils"
	"campuspool/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError maps every business error to a distinct HTTP status and code.
// Anything unmapped is treated as an internal failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, models.ErrInvalidScore):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_SCORE", err.Error())
	case errors.Is(err, models.ErrNotRideOffer):
		utils.ErrorResponse(c, http.StatusBadRequest, "NOT_RIDE_OFFER", err.Error())
	case errors.Is(err, models.ErrUserNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrRideNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "RIDE_NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrRequestNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "REQUEST_NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrMessageNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "MESSAGE_NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrRatingNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "RATING_NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrNotifNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrNoCapacity):
		utils.ErrorResponse(c, http.StatusConflict, "NO_CAPACITY", err.Error())
	case errors.Is(err, models.ErrDuplicateRequest):
		utils.ErrorResponse(c, http.StatusConflict, "DUPLICATE_REQUEST", err.Error())
	case errors.Is(err, models.ErrDuplicateRating):
		utils.ErrorResponse(c, http.StatusConflict, "DUPLICATE_RATING", err.Error())
	case errors.Is(err, models.ErrNotPending):
		utils.ErrorResponse(c, http.StatusConflict, "REQUEST_NOT_PENDING", err.Error())
	case errors.Is(err, models.ErrRideNotActive):
		utils.ErrorResponse(c, http.StatusConflict, "RIDE_NOT_ACTIVE", err.Error())
	case errors.Is(err, models.ErrOwnRide):
		utils.ErrorResponse(c, http.StatusConflict, "OWN_RIDE", err.Error())
	case errors.Is(err, models.ErrDomainNotAllowed):
		utils.ErrorResponse(c, http.StatusForbidden, "DOMAIN_NOT_ALLOWED", err.Error())
	case errors.Is(err, models.ErrNotRideOwner):
		utils.ErrorResponse(c, http.StatusForbidden, "NOT_RIDE_OWNER", err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}

func respondValidationErrors(c *gin.Context, errs validators.ValidationErrors) {
	utils.ValidationErrorResponse(c, errs.Fields())
}

// currentUserID aborts with 401 when no authenticated user is on the context.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
	}
	return userID, ok
}

func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

func queryObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Query(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
