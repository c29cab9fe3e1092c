package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

func TestAggregateDeliveredScenario(t *testing.T) {
	trips := []models.Trip{
		{ID: "t1", Status: models.TripDelivered, BrokerID: "broker-001", BrokerPayment: 100},
		{ID: "t2", Status: models.TripDelivered, BrokerID: "broker-002", BrokerPayment: 200},
		{ID: "t3", Status: models.TripDelivered, BrokerID: "broker-003", BrokerPayment: 300},
	}

	result := Aggregate(trips)

	assert.Equal(t, 600.0, result.PaymentSummary.TotalBrokerPayments)
	assert.Equal(t, 0.0, result.PaymentSummary.TotalExpenses)
	assert.Equal(t, 600.0, result.PaymentSummary.Profit)

	require.Len(t, result.TopBrokers, 3)
	assert.Equal(t, "broker-003", result.TopBrokers[0].ID)
	assert.Equal(t, "broker-002", result.TopBrokers[1].ID)
	assert.Equal(t, "broker-001", result.TopBrokers[2].ID)
	assert.Equal(t, 300.0, result.TopBrokers[0].Primary)
}

func TestAggregateStatusSummaryIsZeroFilledAndSumsToTotal(t *testing.T) {
	trips := []models.Trip{
		{ID: "t1", Status: models.TripDelivered},
		{ID: "t2", Status: models.TripDelivered},
		{ID: "t3", Status: models.TripCanceled},
	}

	result := Aggregate(trips)

	require.Len(t, result.StatusSummary, len(models.AllTripStatuses))
	total := 0
	for _, s := range models.AllTripStatuses {
		count, present := result.StatusSummary[s]
		assert.True(t, present, "status %s missing from summary", s)
		total += count
	}
	assert.Equal(t, len(trips), total)
	assert.Equal(t, 2, result.StatusSummary[models.TripDelivered])
	assert.Equal(t, 0, result.StatusSummary[models.TripScheduled])
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	a := models.Trip{ID: "a", Status: models.TripDelivered, BrokerID: "b1", DriverID: "d1", BrokerPayment: 500, DriverPayment: 100}
	b := models.Trip{ID: "b", Status: models.TripPaid, BrokerID: "b2", DriverID: "d2", BrokerPayment: 900, DriverPayment: 250}
	c := models.Trip{ID: "c", Status: models.TripInTransit, BrokerID: "b1", DriverID: "d1", BrokerPayment: 300, LumperFee: 50}

	r1 := Aggregate([]models.Trip{a, b, c})
	r2 := Aggregate([]models.Trip{c, a, b})

	assert.Equal(t, r1.StatusSummary, r2.StatusSummary)
	assert.Equal(t, r1.PaymentSummary, r2.PaymentSummary)
	// No ties in these metrics, so rankings agree too.
	assert.Equal(t, r1.TopBrokers, r2.TopBrokers)
	assert.Equal(t, r1.TopDrivers, r2.TopDrivers)
}

func TestAggregateTopNTieBreakIsFirstSeen(t *testing.T) {
	trips := []models.Trip{
		{ID: "t1", Status: models.TripDelivered, BrokerID: "broker-b", BrokerPayment: 100},
		{ID: "t2", Status: models.TripDelivered, BrokerID: "broker-a", BrokerPayment: 100},
		{ID: "t3", Status: models.TripDelivered, BrokerID: "broker-c", BrokerPayment: 100},
	}

	result := Aggregate(trips)

	require.Len(t, result.TopBrokers, 3)
	assert.Equal(t, "broker-b", result.TopBrokers[0].ID)
	assert.Equal(t, "broker-a", result.TopBrokers[1].ID)
	assert.Equal(t, "broker-c", result.TopBrokers[2].ID)
}

func TestAggregateTruncatesRankingsToFive(t *testing.T) {
	var trips []models.Trip
	for i := 0; i < 8; i++ {
		trips = append(trips, models.Trip{
			ID:            string(rune('a' + i)),
			Status:        models.TripDelivered,
			BrokerID:      "broker-" + string(rune('a'+i)),
			BrokerPayment: float64(100 * (i + 1)),
		})
	}

	result := Aggregate(trips)

	require.Len(t, result.TopBrokers, 5)
	assert.Equal(t, "broker-h", result.TopBrokers[0].ID)
	assert.Equal(t, 800.0, result.TopBrokers[0].Primary)
}

func TestAggregateDerivesFuelCostFromInputs(t *testing.T) {
	trips := []models.Trip{
		// Recorded cost wins over derivation inputs.
		{ID: "t1", Status: models.TripDelivered, BrokerPayment: 1000, FuelCost: 120, AvgFuelPrice: 4, GallonsPerMile: 0.2, TotalMiles: 500},
		// Derived: 4 * 0.2 * 500 = 400.
		{ID: "t2", Status: models.TripDelivered, BrokerPayment: 1000, AvgFuelPrice: 4, GallonsPerMile: 0.2, TotalMiles: 500},
		// Missing an input: contributes 0, not NaN.
		{ID: "t3", Status: models.TripDelivered, BrokerPayment: 1000, AvgFuelPrice: 4, TotalMiles: 500},
	}

	result := Aggregate(trips)

	assert.Equal(t, 520.0, result.PaymentSummary.TotalFuelCosts)
	assert.Equal(t, 3000.0-520.0, result.PaymentSummary.Profit)
}

func TestAggregateDriversRankByTripCount(t *testing.T) {
	trips := []models.Trip{
		{ID: "t1", Status: models.TripDelivered, DriverID: "d1", DriverPayment: 100},
		{ID: "t2", Status: models.TripDelivered, DriverID: "d1", DriverPayment: 100},
		{ID: "t3", Status: models.TripDelivered, DriverID: "d1", DriverPayment: 100},
		{ID: "t4", Status: models.TripDelivered, DriverID: "d2", DriverPayment: 900},
	}

	result := Aggregate(trips)

	require.Len(t, result.TopDrivers, 2)
	assert.Equal(t, "d1", result.TopDrivers[0].ID)
	assert.Equal(t, 3, result.TopDrivers[0].TripCount)
	assert.Equal(t, 3.0, result.TopDrivers[0].Primary)
	assert.Equal(t, 300.0, result.TopDrivers[0].Secondary)
}

func TestAggregateIgnoresBlankDimensionIDs(t *testing.T) {
	trips := []models.Trip{
		{ID: "t1", Status: models.TripDelivered, BrokerPayment: 100},
	}

	result := Aggregate(trips)

	assert.Empty(t, result.TopBrokers)
	assert.Empty(t, result.TopDrivers)
	assert.Equal(t, 100.0, result.PaymentSummary.TotalBrokerPayments)
}
