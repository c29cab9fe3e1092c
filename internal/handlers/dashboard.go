package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/haulhub-io/haulhub-backend/internal/middleware"
	"github.com/haulhub-io/haulhub-backend/internal/models"
	"github.com/haulhub-io/haulhub-backend/internal/services"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

// PaginationTokenHeader carries the opaque continuation token. Clients echo
// back a value previously received, never construct one.
const PaginationTokenHeader = "x-pagination-token"

// DashboardHandler serves the unified dashboard and the plain trips page.
type DashboardHandler struct {
	service *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboardUnified serves one page of trips plus, when the request
// carries no pagination token, aggregates over the complete filtered set.
func (h *DashboardHandler) GetDashboardUnified(c *fiber.Ctx) error {
	filter, err := parseTripFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	resp, err := h.service.GetDashboard(c.Context(), middleware.CarrierID(c), filter, c.Get(PaginationTokenHeader))
	if err != nil {
		return dashboardError(c, err)
	}
	return c.JSON(resp)
}

// GetTrips serves one page of trips with no aggregates, used for pages > 0.
func (h *DashboardHandler) GetTrips(c *fiber.Ctx) error {
	filter, err := parseTripFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	resp, err := h.service.GetTrips(c.Context(), middleware.CarrierID(c), filter, c.Get(PaginationTokenHeader))
	if err != nil {
		return dashboardError(c, err)
	}
	return c.JSON(resp)
}

func dashboardError(c *fiber.Ctx, err error) error {
	if errors.Is(err, storage.ErrBadToken) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pagination token"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query trips"})
}

// parseTripFilter builds and validates a filter from query parameters.
// Validation failures never reach the store.
func parseTripFilter(c *fiber.Ctx) (models.TripFilter, error) {
	var f models.TripFilter

	start, err := parseDate(c.Query("startDate"), false)
	if err != nil {
		return f, err
	}
	end, err := parseDate(c.Query("endDate"), true)
	if err != nil {
		return f, err
	}
	f.StartDate = start
	f.EndDate = end
	f.Status = c.Query("status")
	f.BrokerID = c.Query("brokerId")
	f.DispatcherID = c.Query("dispatcherId")
	f.DriverID = c.Query("driverId")
	f.TruckID = c.Query("truckId")

	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, errors.New("pageSize must be a number")
		}
		f.PageSize = n
	}

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// parseDate accepts RFC 3339 or a bare date. A bare end date is pushed to
// end of day so the range is inclusive.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("dates must be RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
