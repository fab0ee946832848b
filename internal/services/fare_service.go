package services

import (
	"campuspool/internal/models"
	"campuspool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FareService interface {
	SplitCost(req *SplitCostRequest) (*SplitCostResponse, error)
	DistanceBasedCost(req *DistanceCostRequest) (float64, error)
	TimeBasedCost(durationMinutes, costPerHour float64) (float64, error)
	SuggestedPricePerSeat(req *SuggestedPriceRequest) (float64, error)
	Savings(originalCost, sharedCost float64) (*SavingsResponse, error)
}

type SplitCostRequest struct {
	TotalCost            float64              `json:"total_cost" validate:"min=0"`
	PassengerIDs         []primitive.ObjectID `json:"passenger_ids"`
	IncludeDriverInSplit bool                 `json:"include_driver_in_split"`
}

type SplitCostResponse struct {
	CostPerSeat     float64                        `json:"cost_per_seat"`
	DriverShare     float64                        `json:"driver_share"`
	PassengerShares map[primitive.ObjectID]float64 `json:"passenger_shares"`
}

type DistanceCostRequest struct {
	DistanceKm           float64 `json:"distance_km" validate:"min=0"`
	FuelEfficiencyKmPerL float64 `json:"fuel_efficiency_km_per_l"`
	FuelPricePerLiter    float64 `json:"fuel_price_per_liter"`
	ExtraCostPerKm       float64 `json:"extra_cost_per_km"`
}

type SuggestedPriceRequest struct {
	DistanceKm           float64 `json:"distance_km" validate:"min=0"`
	DurationMinutes      float64 `json:"duration_minutes" validate:"min=0"`
	SeatCount            int     `json:"seat_count" validate:"min=1"`
	FuelEfficiencyKmPerL float64 `json:"fuel_efficiency_km_per_l"`
	FuelPricePerLiter    float64 `json:"fuel_price_per_liter"`
	WearAndTearPerKm     float64 `json:"wear_and_tear_per_km"`
	TimeValuePerHour     float64 `json:"time_value_per_hour"`
	ProfitMargin         float64 `json:"profit_margin"`
}

type SavingsResponse struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// fareService is pure arithmetic over caller-supplied figures. Distance and
// duration come from the client; no routing provider is consulted.
type fareService struct{}

func NewFareService() FareService {
	return &fareService{}
}

func (s *fareService) SplitCost(req *SplitCostRequest) (*SplitCostResponse, error) {
	if req == nil || req.TotalCost < 0 {
		return nil, models.ErrInvalidArgument
	}

	// Nobody to split with: the driver carries the whole cost.
	if len(req.PassengerIDs) == 0 {
		return &SplitCostResponse{
			CostPerSeat:     utils.Round2(req.TotalCost),
			DriverShare:     utils.Round2(req.TotalCost),
			PassengerShares: map[primitive.ObjectID]float64{},
		}, nil
	}

	shareCount := len(req.PassengerIDs)
	if req.IncludeDriverInSplit {
		shareCount++
	}

	// Each share is rounded independently; the residual cent error is accepted
	// rather than redistributed.
	portion := utils.Round2(req.TotalCost / float64(shareCount))

	shares := make(map[primitive.ObjectID]float64, len(req.PassengerIDs))
	for _, id := range req.PassengerIDs {
		shares[id] = portion
	}

	driverShare := 0.0
	if req.IncludeDriverInSplit {
		driverShare = portion
	}

	return &SplitCostResponse{
		CostPerSeat:     portion,
		DriverShare:     driverShare,
		PassengerShares: shares,
	}, nil
}

func (s *fareService) DistanceBasedCost(req *DistanceCostRequest) (float64, error) {
	if req == nil || req.DistanceKm < 0 {
		return 0, models.ErrInvalidArgument
	}

	efficiency := req.FuelEfficiencyKmPerL
	if efficiency <= 0 {
		efficiency = utils.DefaultFuelEfficiencyKmPerLiter
	}
	fuelPrice := req.FuelPricePerLiter
	if fuelPrice <= 0 {
		fuelPrice = utils.DefaultFuelPricePerLiter
	}
	extra := req.ExtraCostPerKm
	if extra < 0 {
		return 0, models.ErrInvalidArgument
	}
	if extra == 0 {
		extra = utils.DefaultExtraCostPerKm
	}

	fuelCost := (req.DistanceKm / efficiency) * fuelPrice
	return utils.Round2(fuelCost + req.DistanceKm*extra), nil
}

func (s *fareService) TimeBasedCost(durationMinutes, costPerHour float64) (float64, error) {
	if durationMinutes < 0 {
		return 0, models.ErrInvalidArgument
	}
	if costPerHour <= 0 {
		costPerHour = utils.DefaultCostPerHour
	}
	return utils.Round2((durationMinutes / 60.0) * costPerHour), nil
}

func (s *fareService) SuggestedPricePerSeat(req *SuggestedPriceRequest) (float64, error) {
	if req == nil || req.DistanceKm < 0 || req.DurationMinutes < 0 || req.SeatCount < 1 {
		return 0, models.ErrInvalidArgument
	}

	efficiency := req.FuelEfficiencyKmPerL
	if efficiency <= 0 {
		efficiency = utils.DefaultFuelEfficiencyKmPerLiter
	}
	fuelPrice := req.FuelPricePerLiter
	if fuelPrice <= 0 {
		fuelPrice = utils.DefaultFuelPricePerLiter
	}
	wearAndTear := req.WearAndTearPerKm
	if wearAndTear <= 0 {
		wearAndTear = utils.DefaultWearAndTearPerKm
	}
	timeValue := req.TimeValuePerHour
	if timeValue <= 0 {
		timeValue = utils.DefaultTimeValuePerHour
	}
	margin := req.ProfitMargin
	if margin <= 0 {
		margin = utils.DefaultProfitMargin
	}

	fuelCost := (req.DistanceKm/efficiency)*fuelPrice + req.DistanceKm*wearAndTear
	timeCost := (req.DurationMinutes / 60.0) * timeValue

	total := (fuelCost + timeCost) * (1 + margin)
	return utils.Round2(total / float64(req.SeatCount)), nil
}

func (s *fareService) Savings(originalCost, sharedCost float64) (*SavingsResponse, error) {
	amount := utils.Round2(originalCost - sharedCost)

	percentage := 0.0
	if originalCost > 0 {
		percentage = utils.Round2((originalCost - sharedCost) / originalCost * 100)
	}

	return &SavingsResponse{
		Amount:     amount,
		Percentage: percentage,
	}, nil
}
