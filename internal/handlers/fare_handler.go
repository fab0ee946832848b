package handlers

import (
	"campuspool/internal/services"
	"campuspool/internal/utils"
	"campuspool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type FareHandler struct {
	fareService services.FareService
	logger      *logger.Logger
}

func NewFareHandler(fareService services.FareService, log *logger.Logger) *FareHandler {
	return &FareHandler{
		fareService: fareService,
		logger:      log,
	}
}

// SplitCost handles POST /fares/split
func (h *FareHandler) SplitCost(c *gin.Context) {
	var req services.SplitCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	result, err := h.fareService.SplitCost(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Cost split calculated", result)
}

// EstimateCost handles POST /fares/estimate. It combines the distance and
// time components into a single trip cost estimate.
func (h *FareHandler) EstimateCost(c *gin.Context) {
	var req struct {
		services.DistanceCostRequest
		DurationMinutes float64 `json:"duration_minutes"`
		CostPerHour     float64 `json:"cost_per_hour"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	distanceCost, err := h.fareService.DistanceBasedCost(&req.DistanceCostRequest)
	if err != nil {
		respondError(c, err)
		return
	}
	timeCost, err := h.fareService.TimeBasedCost(req.DurationMinutes, req.CostPerHour)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Cost estimated", gin.H{
		"distance_cost": distanceCost,
		"time_cost":     timeCost,
		"total_cost":    utils.Round2(distanceCost + timeCost),
	})
}

// SuggestPrice handles POST /fares/suggest
func (h *FareHandler) SuggestPrice(c *gin.Context) {
	var req services.SuggestedPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	price, err := h.fareService.SuggestedPricePerSeat(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Suggested price calculated", gin.H{"price_per_seat": price})
}

// Savings handles POST /fares/savings
func (h *FareHandler) Savings(c *gin.Context) {
	var req struct {
		OriginalCost float64 `json:"original_cost"`
		SharedCost   float64 `json:"shared_cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	savings, err := h.fareService.Savings(req.OriginalCost, req.SharedCost)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Savings calculated", savings)
}
