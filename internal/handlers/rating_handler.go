package handlers

import (
	"campuspool/internal/services"
	"campuspool/internal/utils"
	"campuspool/internal/validators"
	"campuspool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService services.RatingService
	logger        *logger.Logger
}

func NewRatingHandler(ratingService services.RatingService, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		logger:        log,
	}
}

// RecordRating handles POST /ratings
func (h *RatingHandler) RecordRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RecordRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}
	if errs := validators.ValidateRecordRating(&req); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	rating, err := h.ratingService.RecordRating(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Rating recorded", rating)
}

// GetUserRatings handles GET /users/:id/ratings
func (h *RatingHandler) GetUserRatings(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	ratings, err := h.ratingService.GetUserRatings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Ratings retrieved", ratings, &utils.Meta{Count: len(ratings)})
}

// GetRideRatings handles GET /rides/:id/ratings
func (h *RatingHandler) GetRideRatings(c *gin.Context) {
	rideID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	ratings, err := h.ratingService.GetRideRatings(c.Request.Context(), rideID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Ratings retrieved", ratings, &utils.Meta{Count: len(ratings)})
}
