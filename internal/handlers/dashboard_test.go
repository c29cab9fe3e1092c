package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulhub-io/haulhub-backend/internal/handlers"
	"github.com/haulhub-io/haulhub-backend/internal/models"
	"github.com/haulhub-io/haulhub-backend/internal/routes"
	"github.com/haulhub-io/haulhub-backend/internal/services"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

const testCarrier = "carrier-001"

func newTestApp(t *testing.T) (*fiber.App, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	dashboards := services.NewDashboardService(services.NewTripQueryService(store), 0, time.Second)

	app := fiber.New()
	routes.SetupRoutes(app, store, dashboards, "", "memory")
	return app, store
}

func seedTrips(t *testing.T, store *storage.MemoryStore, carrierID string, count int, status models.TripStatus) {
	t.Helper()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		trip := models.Trip{
			ID:            fmt.Sprintf("trip-%s-%03d", carrierID, i),
			CarrierID:     carrierID,
			Status:        status,
			BrokerPayment: 100,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.CreateTrip(context.Background(), &trip))
	}
}

func doRequest(t *testing.T, app *fiber.App, method, path, carrierID, token string, body interface{}) *http.Response {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if carrierID != "" {
		req.Header.Set("x-carrier-id", carrierID)
	}
	if token != "" {
		req.Header.Set(handlers.PaginationTokenHeader, token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestDashboardUnifiedPaginatesWithHeaderToken(t *testing.T) {
	app, store := newTestApp(t)
	seedTrips(t, store, testCarrier, 10, models.TripDelivered)

	resp := doRequest(t, app, "GET", "/carrier/dashboard-unified?pageSize=4", testCarrier, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var first models.DashboardResponse
	decodeJSON(t, resp, &first)
	require.NotNil(t, first.ChartAggregates)
	assert.Equal(t, 10, first.ChartAggregates.StatusSummary[models.TripDelivered])
	assert.Len(t, first.Trips, 4)
	require.NotEmpty(t, first.LastEvaluatedKey)

	resp = doRequest(t, app, "GET", "/carrier/dashboard-unified?pageSize=4", testCarrier, first.LastEvaluatedKey, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var second models.DashboardResponse
	decodeJSON(t, resp, &second)
	assert.Nil(t, second.ChartAggregates)
	assert.Len(t, second.Trips, 4)
	require.NotEmpty(t, second.LastEvaluatedKey)

	resp = doRequest(t, app, "GET", "/carrier/dashboard-unified?pageSize=4", testCarrier, second.LastEvaluatedKey, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var last models.DashboardResponse
	decodeJSON(t, resp, &last)
	assert.Len(t, last.Trips, 2)
	assert.Empty(t, last.LastEvaluatedKey)
}

func TestDashboardUnifiedRejectsBadInput(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "GET", "/carrier/dashboard-unified?status=bogus", testCarrier, "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/carrier/dashboard-unified", testCarrier, "not-a-token!!!", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/carrier/dashboard-unified?pageSize=9999", testCarrier, "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCarrierRoutesRequireAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "GET", "/carrier/dashboard-unified", "", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestDashboardScopesToRequestingCarrier(t *testing.T) {
	app, store := newTestApp(t)
	seedTrips(t, store, testCarrier, 5, models.TripDelivered)

	resp := doRequest(t, app, "GET", "/carrier/dashboard-unified", "carrier-other", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.DashboardResponse
	decodeJSON(t, resp, &body)
	assert.Empty(t, body.Trips)
	assert.Empty(t, body.LastEvaluatedKey)
}

func TestDispatchTripDenormalisesBrokerName(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "POST", "/carrier/brokers/", testCarrier, "", fiber.Map{"name": "C.H. Robinson"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var broker models.Broker
	decodeJSON(t, resp, &broker)

	resp = doRequest(t, app, "POST", "/carrier/trips", testCarrier, "", fiber.Map{
		"origin":        "Dallas, TX",
		"destination":   "Atlanta, GA",
		"scheduledAt":   "2026-03-01T08:00:00Z",
		"brokerId":      broker.ID,
		"brokerPayment": 2500,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var trip models.Trip
	decodeJSON(t, resp, &trip)
	assert.Equal(t, models.TripScheduled, trip.Status)
	assert.Equal(t, "C.H. Robinson", trip.BrokerName)
	assert.NotEmpty(t, trip.ID)
}

func TestTripStatusTransitions(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "POST", "/carrier/trips", testCarrier, "", fiber.Map{
		"origin":      "Dallas, TX",
		"destination": "Atlanta, GA",
		"scheduledAt": "2026-03-01T08:00:00Z",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var trip models.Trip
	decodeJSON(t, resp, &trip)

	// Skipping ahead in the lifecycle is rejected.
	resp = doRequest(t, app, "PATCH", "/carrier/trips/"+trip.ID+"/status", testCarrier, "", fiber.Map{"status": "paid"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "PATCH", "/carrier/trips/"+trip.ID+"/status", testCarrier, "", fiber.Map{"status": "picked_up"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated models.Trip
	decodeJSON(t, resp, &updated)
	assert.Equal(t, models.TripPickedUp, updated.Status)
	require.NotNil(t, updated.PickedUpAt)

	// Cancel is reachable from any non-terminal state.
	resp = doRequest(t, app, "PATCH", "/carrier/trips/"+trip.ID+"/status", testCarrier, "", fiber.Map{"status": "canceled"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestResolveEntitiesBatch(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "POST", "/carrier/brokers/", testCarrier, "", fiber.Map{"name": "TQL"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var broker models.Broker
	decodeJSON(t, resp, &broker)

	resp = doRequest(t, app, "POST", "/carrier/users/", testCarrier, "", fiber.Map{"role": "driver", "name": "Ray Price"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var driver models.User
	decodeJSON(t, resp, &driver)

	resp = doRequest(t, app, "POST", "/carrier/entities/resolve", testCarrier, "", fiber.Map{
		"broker": []string{broker.ID},
		"driver": []string{driver.ID, "user-missing"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var names models.ResolveResponse
	decodeJSON(t, resp, &names)
	assert.Equal(t, "TQL", names[models.KindBroker][broker.ID])
	assert.Equal(t, "Ray Price", names[models.KindDriver][driver.ID])
	_, present := names[models.KindDriver]["user-missing"]
	assert.False(t, present)

	resp = doRequest(t, app, "POST", "/carrier/entities/resolve", testCarrier, "", fiber.Map{
		"warehouse": []string{"w1"},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
