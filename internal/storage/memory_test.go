package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

const testCarrier = "carrier-001"

func seedTrips(t *testing.T, store *MemoryStore, n int, mutate func(i int, trip *models.Trip)) []models.Trip {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Trip, 0, n)
	for i := 0; i < n; i++ {
		trip := models.Trip{
			ID:          fmt.Sprintf("trip-%03d", i),
			CarrierID:   testCarrier,
			Status:      models.TripScheduled,
			Origin:      "Dallas, TX",
			Destination: "Atlanta, GA",
			ScheduledAt: base.Add(time.Duration(i) * time.Hour),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if mutate != nil {
			mutate(i, &trip)
		}
		require.NoError(t, store.CreateTrip(context.Background(), &trip))
		out = append(out, trip)
	}
	return out
}

func collectAllPages(t *testing.T, store *MemoryStore, q TripQuery, limit int) []models.Trip {
	t.Helper()
	var all []models.Trip
	token := ""
	for {
		page, next, err := store.QueryTrips(context.Background(), testCarrier, q, token, limit)
		require.NoError(t, err)
		all = append(all, page...)
		if next == "" {
			return all
		}
		token = next
	}
}

func TestQueryTripsPaginationCoversExactlyTheFilteredSet(t *testing.T) {
	store := NewMemoryStore()
	seedTrips(t, store, 57, func(i int, trip *models.Trip) {
		if i%3 == 0 {
			trip.Status = models.TripDelivered
		}
	})

	q := TripQuery{Status: models.TripDelivered}
	reference := collectAllPages(t, store, q, 1000)
	require.Len(t, reference, 19)

	for _, pageSize := range []int{1, 3, 7, 25} {
		paged := collectAllPages(t, store, q, pageSize)
		require.Len(t, paged, len(reference), "page size %d", pageSize)
		for i := range reference {
			assert.Equal(t, reference[i].ID, paged[i].ID, "page size %d position %d", pageSize, i)
		}
	}
}

func TestQueryTripsSparsePageStillHasContinuationToken(t *testing.T) {
	store := NewMemoryStore()
	// One match in the first ten candidates, the rest later.
	seedTrips(t, store, 30, func(i int, trip *models.Trip) {
		if i == 2 || i >= 20 {
			trip.Status = models.TripInTransit
		}
	})

	page, next, err := store.QueryTrips(context.Background(), testCarrier, TripQuery{Status: models.TripInTransit}, "", 10)
	require.NoError(t, err)

	// Fewer matches than the limit, but more candidates remain: the token
	// is the continuation signal, not the page length.
	assert.Len(t, page, 1)
	assert.NotEmpty(t, next)
}

func TestQueryTripsFinalPageHasNoToken(t *testing.T) {
	store := NewMemoryStore()
	seedTrips(t, store, 5, nil)

	page, next, err := store.QueryTrips(context.Background(), testCarrier, TripQuery{}, "", 10)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Empty(t, next)
}

func TestQueryTripsRejectsGarbageToken(t *testing.T) {
	store := NewMemoryStore()
	seedTrips(t, store, 3, nil)

	_, _, err := store.QueryTrips(context.Background(), testCarrier, TripQuery{}, "not-a-token", 10)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestQueryTripsScopedToCarrierPartition(t *testing.T) {
	store := NewMemoryStore()
	seedTrips(t, store, 4, nil)
	other := models.Trip{
		ID:        "trip-other",
		CarrierID: "carrier-002",
		Status:    models.TripScheduled,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 30, 0, time.UTC),
	}
	require.NoError(t, store.CreateTrip(context.Background(), &other))

	all := collectAllPages(t, store, TripQuery{}, 2)
	require.Len(t, all, 4)
	for _, trip := range all {
		assert.Equal(t, testCarrier, trip.CarrierID)
	}
}

func TestQueryTripsDateAndDimensionPredicates(t *testing.T) {
	store := NewMemoryStore()
	seedTrips(t, store, 10, func(i int, trip *models.Trip) {
		if i < 5 {
			trip.BrokerID = "broker-001"
		}
	})

	start := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	got := collectAllPages(t, store, TripQuery{
		StartDate: &start,
		EndDate:   &end,
		BrokerID:  "broker-001",
	}, 100)

	// Scheduled hours 2..4 carry the broker; 5 and 6 belong to the other
	// half of the seed.
	require.Len(t, got, 3)
	for _, trip := range got {
		assert.Equal(t, "broker-001", trip.BrokerID)
		assert.False(t, trip.ScheduledAt.Before(start))
		assert.False(t, trip.ScheduledAt.After(end))
	}
}

func TestResolveNamesSkipsDeletedAndUnknown(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateBroker(ctx, &models.Broker{ID: "broker-001", CarrierID: testCarrier, Name: "C.H. Robinson"}))
	require.NoError(t, store.CreateBroker(ctx, &models.Broker{ID: "broker-002", CarrierID: testCarrier, Name: "XPO Logistics"}))
	require.NoError(t, store.DeleteBroker(ctx, testCarrier, "broker-002"))

	names, err := store.ResolveNames(ctx, testCarrier, models.KindBroker, []string{"broker-001", "broker-002", "broker-404"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"broker-001": "C.H. Robinson"}, names)
}

func TestResolveNamesSeparatesUserRoles(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateUser(ctx, &models.User{ID: "user-001", CarrierID: testCarrier, Role: models.RoleDriver, Name: "Ray Price"}))
	require.NoError(t, store.CreateUser(ctx, &models.User{ID: "user-002", CarrierID: testCarrier, Role: models.RoleDispatcher, Name: "Dana Ortiz"}))

	drivers, err := store.ResolveNames(ctx, testCarrier, models.KindDriver, []string{"user-001", "user-002"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"user-001": "Ray Price"}, drivers)

	dispatchers, err := store.ResolveNames(ctx, testCarrier, models.KindDispatcher, []string{"user-001", "user-002"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"user-002": "Dana Ortiz"}, dispatchers)
}

func TestSoftDeleteHidesEntityFromGetAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateTruck(ctx, &models.Truck{ID: "truck-001", CarrierID: testCarrier, UnitNumber: "401"}))
	require.NoError(t, store.DeleteTruck(ctx, testCarrier, "truck-001"))

	_, err := store.GetTruck(ctx, testCarrier, "truck-001")
	assert.ErrorIs(t, err, ErrNotFound)

	trucks, err := store.ListTrucks(ctx, testCarrier)
	require.NoError(t, err)
	assert.Empty(t, trucks)
}
