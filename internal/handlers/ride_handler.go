package handlers

import (
	"strconv"
	"time"

	"campuspool/internal/models"
	"campuspool/internal/services"
	"campuspool/internal/utils"
	"campuspool/internal/validators"
	"campuspool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideService services.RideService
	logger      *logger.Logger
}

func NewRideHandler(rideService services.RideService, log *logger.Logger) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		logger:      log,
	}
}

// CreateRide handles POST /rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}
	if errs := validators.ValidateCreateRide(&req); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Ride created", ride)
}

// GetRide handles GET /rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	ride, err := h.rideService.GetRide(c.Request.Context(), rideID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride retrieved", ride)
}

// UpdateRide handles PUT /rides/:id
func (h *RideHandler) UpdateRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rideID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	ride, err := h.rideService.UpdateRide(c.Request.Context(), userID, rideID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride updated", ride)
}

// SearchRides handles GET /rides/search
func (h *RideHandler) SearchRides(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	criteria, ok := h.bindSearchCriteria(c)
	if !ok {
		return
	}
	if errs := validators.ValidateSearchCriteria(criteria); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	rides, err := h.rideService.Search(c.Request.Context(), userID, criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Rides retrieved", rides, &utils.Meta{Count: len(rides)})
}

func (h *RideHandler) bindSearchCriteria(c *gin.Context) (*services.SearchCriteria, bool) {
	criteria := &services.SearchCriteria{
		Kind:     models.RideKind(c.Query("kind")),
		FromCity: c.Query("from_city"),
		ToCity:   c.Query("to_city"),
	}

	if raw := c.Query("departure_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.BadRequestResponse(c, "departure_date must be YYYY-MM-DD")
			return nil, false
		}
		criteria.DepartureDate = &date
	}
	if raw := c.Query("max_cost_per_seat"); raw != "" {
		maxCost, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.BadRequestResponse(c, "max_cost_per_seat must be a number")
			return nil, false
		}
		criteria.MaxCostPerSeat = &maxCost
	}
	if raw := c.Query("min_seats"); raw != "" {
		minSeats, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequestResponse(c, "min_seats must be a number")
			return nil, false
		}
		criteria.MinSeats = minSeats
	}
	if raw := c.Query("gender_preference"); raw != "" {
		pref := models.GenderPreference(raw)
		switch pref {
		case models.GenderPreferenceMale, models.GenderPreferenceFemale, models.GenderPreferenceAny:
			criteria.GenderPreference = &pref
		default:
			utils.BadRequestResponse(c, "gender_preference must be male, female or any")
			return nil, false
		}
	}

	return criteria, true
}

// RequestToJoin handles POST /rides/:id/join
func (h *RideHandler) RequestToJoin(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rideID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req services.JoinRideRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}
	if errs := validators.ValidateJoinRide(&req); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	request, err := h.rideService.RequestToJoin(c.Request.Context(), userID, rideID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Join request created", request)
}

// ApproveRequest handles POST /requests/:id/approve
func (h *RideHandler) ApproveRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	request, err := h.rideService.ApproveRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Request approved", request)
}

// RejectRequest handles POST /requests/:id/reject
func (h *RideHandler) RejectRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	request, err := h.rideService.RejectRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Request rejected", request)
}

// CompleteRide handles POST /rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rideID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.rideService.CompleteRide(c.Request.Context(), userID, rideID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride completed", nil)
}

// CancelRide handles POST /rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rideID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.rideService.CancelRide(c.Request.Context(), userID, rideID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride cancelled", nil)
}

// GetRideRequests handles GET /rides/:id/requests (owner only)
func (h *RideHandler) GetRideRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rideID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	requests, err := h.rideService.GetRideRequests(c.Request.Context(), userID, rideID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Requests retrieved", requests, &utils.Meta{Count: len(requests)})
}

// GetMyRequests handles GET /requests
func (h *RideHandler) GetMyRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := h.rideService.GetUserRequests(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Requests retrieved", requests, &utils.Meta{Count: len(requests)})
}

// GetMyRides handles GET /rides/mine
func (h *RideHandler) GetMyRides(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	rides, total, err := h.rideService.GetUserRides(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Rides retrieved", rides, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetJoinedRides handles GET /rides/joined
func (h *RideHandler) GetJoinedRides(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	rides, total, err := h.rideService.GetJoinedRides(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Rides retrieved", rides, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
