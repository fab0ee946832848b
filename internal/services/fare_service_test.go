package services

import (
	"testing"

	"campuspool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSplitCost(t *testing.T) {
	svc := NewFareService()

	passengers := func(n int) []primitive.ObjectID {
		ids := make([]primitive.ObjectID, n)
		for i := range ids {
			ids[i] = primitive.NewObjectID()
		}
		return ids
	}

	t.Run("no passengers leaves the driver with everything", func(t *testing.T) {
		resp, err := svc.SplitCost(&SplitCostRequest{TotalCost: 45.50})
		require.NoError(t, err)

		assert.Equal(t, 45.50, resp.CostPerSeat)
		assert.Equal(t, 45.50, resp.DriverShare)
		assert.Empty(t, resp.PassengerShares)
	})

	t.Run("even split excluding driver", func(t *testing.T) {
		ids := passengers(3)
		resp, err := svc.SplitCost(&SplitCostRequest{
			TotalCost:    30.0,
			PassengerIDs: ids,
		})
		require.NoError(t, err)

		assert.Equal(t, 10.0, resp.CostPerSeat)
		assert.Equal(t, 0.0, resp.DriverShare)
		require.Len(t, resp.PassengerShares, 3)
		for _, id := range ids {
			assert.Equal(t, 10.0, resp.PassengerShares[id])
		}
	})

	t.Run("driver included takes one portion", func(t *testing.T) {
		ids := passengers(3)
		resp, err := svc.SplitCost(&SplitCostRequest{
			TotalCost:            40.0,
			PassengerIDs:         ids,
			IncludeDriverInSplit: true,
		})
		require.NoError(t, err)

		assert.Equal(t, 10.0, resp.CostPerSeat)
		assert.Equal(t, 10.0, resp.DriverShare)
		assert.Len(t, resp.PassengerShares, 3)
	})

	t.Run("shares rounded to cents without redistribution", func(t *testing.T) {
		ids := passengers(3)
		resp, err := svc.SplitCost(&SplitCostRequest{
			TotalCost:    10.0,
			PassengerIDs: ids,
		})
		require.NoError(t, err)

		assert.Equal(t, 3.33, resp.CostPerSeat)

		var sum float64
		for _, share := range resp.PassengerShares {
			sum += share
		}
		assert.InDelta(t, 10.0, sum, 0.01*float64(len(ids)))
	})

	t.Run("negative total rejected", func(t *testing.T) {
		_, err := svc.SplitCost(&SplitCostRequest{TotalCost: -1})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestDistanceBasedCost(t *testing.T) {
	svc := NewFareService()

	t.Run("defaults", func(t *testing.T) {
		// 120 km: fuel 120/12*1.5 = 15, extra 120*0.1 = 12.
		cost, err := svc.DistanceBasedCost(&DistanceCostRequest{DistanceKm: 120})
		require.NoError(t, err)
		assert.Equal(t, 27.0, cost)
	})

	t.Run("zero distance costs nothing", func(t *testing.T) {
		cost, err := svc.DistanceBasedCost(&DistanceCostRequest{DistanceKm: 0})
		require.NoError(t, err)
		assert.Equal(t, 0.0, cost)
	})

	t.Run("custom parameters", func(t *testing.T) {
		cost, err := svc.DistanceBasedCost(&DistanceCostRequest{
			DistanceKm:           100,
			FuelEfficiencyKmPerL: 10,
			FuelPricePerLiter:    2.0,
			ExtraCostPerKm:       0.2,
		})
		require.NoError(t, err)
		assert.Equal(t, 40.0, cost)
	})

	t.Run("monotonic in distance", func(t *testing.T) {
		short, err := svc.DistanceBasedCost(&DistanceCostRequest{DistanceKm: 50})
		require.NoError(t, err)
		long, err := svc.DistanceBasedCost(&DistanceCostRequest{DistanceKm: 51})
		require.NoError(t, err)
		assert.Greater(t, long, short)
	})

	t.Run("negative distance rejected", func(t *testing.T) {
		_, err := svc.DistanceBasedCost(&DistanceCostRequest{DistanceKm: -5})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestTimeBasedCost(t *testing.T) {
	svc := NewFareService()

	t.Run("default hourly rate", func(t *testing.T) {
		cost, err := svc.TimeBasedCost(90, 0)
		require.NoError(t, err)
		assert.Equal(t, 15.0, cost)
	})

	t.Run("custom rate", func(t *testing.T) {
		cost, err := svc.TimeBasedCost(30, 20)
		require.NoError(t, err)
		assert.Equal(t, 10.0, cost)
	})

	t.Run("negative duration rejected", func(t *testing.T) {
		_, err := svc.TimeBasedCost(-1, 10)
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestSuggestedPricePerSeat(t *testing.T) {
	svc := NewFareService()

	t.Run("defaults", func(t *testing.T) {
		// 60 km, 60 min, 3 seats:
		// fuel 60/12*1.5 = 7.5, wear 60*0.15 = 9, time 60/60*8 = 8
		// (7.5+9+8)*1.1/3 = 8.983... -> 8.98
		price, err := svc.SuggestedPricePerSeat(&SuggestedPriceRequest{
			DistanceKm:      60,
			DurationMinutes: 60,
			SeatCount:       3,
		})
		require.NoError(t, err)
		assert.Equal(t, 8.98, price)
	})

	t.Run("more seats lowers the price", func(t *testing.T) {
		one, err := svc.SuggestedPricePerSeat(&SuggestedPriceRequest{
			DistanceKm: 100, DurationMinutes: 80, SeatCount: 1,
		})
		require.NoError(t, err)
		four, err := svc.SuggestedPricePerSeat(&SuggestedPriceRequest{
			DistanceKm: 100, DurationMinutes: 80, SeatCount: 4,
		})
		require.NoError(t, err)
		assert.Greater(t, one, four)
	})

	t.Run("zero seats rejected", func(t *testing.T) {
		_, err := svc.SuggestedPricePerSeat(&SuggestedPriceRequest{
			DistanceKm: 10, DurationMinutes: 10, SeatCount: 0,
		})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestSavings(t *testing.T) {
	svc := NewFareService()

	t.Run("typical split", func(t *testing.T) {
		resp, err := svc.Savings(100, 70)
		require.NoError(t, err)
		assert.Equal(t, 30.0, resp.Amount)
		assert.Equal(t, 30.0, resp.Percentage)
	})

	t.Run("zero original avoids divide by zero", func(t *testing.T) {
		resp, err := svc.Savings(0, 0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.Amount)
		assert.Equal(t, 0.0, resp.Percentage)
	})

	t.Run("shared above original yields negative savings", func(t *testing.T) {
		resp, err := svc.Savings(50, 60)
		require.NoError(t, err)
		assert.Equal(t, -10.0, resp.Amount)
		assert.Equal(t, -20.0, resp.Percentage)
	})
}
