package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulhub-io/haulhub-backend/internal/models"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

func newDashboardFixture(t *testing.T, maxRecords int) (*DashboardService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := NewDashboardService(NewTripQueryService(store), maxRecords, time.Second)
	return svc, store
}

func TestGetDashboardFirstPageCarriesAggregates(t *testing.T) {
	svc, store := newDashboardFixture(t, 0)
	seedSettlementTrips(t, store, 3, 2, 5)

	resp, err := svc.GetDashboard(context.Background(), testCarrier, models.TripFilter{PageSize: 4}, "")
	require.NoError(t, err)

	require.NotNil(t, resp.ChartAggregates)
	assert.Len(t, resp.Trips, 4)
	assert.NotEmpty(t, resp.LastEvaluatedKey)

	// Aggregates cover the complete filtered set, not the page.
	total := 0
	for _, count := range resp.ChartAggregates.StatusSummary {
		total += count
	}
	assert.Equal(t, 10, total)
}

func TestGetDashboardLaterPagesOmitAggregates(t *testing.T) {
	svc, store := newDashboardFixture(t, 0)
	seedSettlementTrips(t, store, 0, 0, 10)

	first, err := svc.GetDashboard(context.Background(), testCarrier, models.TripFilter{PageSize: 4}, "")
	require.NoError(t, err)
	require.NotEmpty(t, first.LastEvaluatedKey)

	second, err := svc.GetDashboard(context.Background(), testCarrier, models.TripFilter{PageSize: 4}, first.LastEvaluatedKey)
	require.NoError(t, err)
	assert.Nil(t, second.ChartAggregates)
	assert.Len(t, second.Trips, 4)
}

func TestGetDashboardDegradesWhenAggregationBlowsBudget(t *testing.T) {
	svc, store := newDashboardFixture(t, 5)
	seedSettlementTrips(t, store, 0, 0, 20)

	resp, err := svc.GetDashboard(context.Background(), testCarrier, models.TripFilter{PageSize: 4}, "")

	// The page is still served; only the charts are dropped.
	require.NoError(t, err)
	assert.Nil(t, resp.ChartAggregates)
	assert.Len(t, resp.Trips, 4)
}

func TestGetTripsNeverAggregates(t *testing.T) {
	svc, store := newDashboardFixture(t, 0)
	seedSettlementTrips(t, store, 0, 0, 3)

	resp, err := svc.GetTrips(context.Background(), testCarrier, models.TripFilter{}, "")
	require.NoError(t, err)
	assert.Nil(t, resp.ChartAggregates)
	assert.Len(t, resp.Trips, 3)
}
