package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/haulhub-io/haulhub-backend/internal/middleware"
	"github.com/haulhub-io/haulhub-backend/internal/models"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

// TripHandler handles trip lifecycle requests. Trips are created by a
// dispatch action and never hard-deleted.
type TripHandler struct {
	store storage.Store
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(store storage.Store) *TripHandler {
	return &TripHandler{store: store}
}

// DispatchTripInput is the create payload. Status, ids and timestamps are
// assigned server-side.
type DispatchTripInput struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	ScheduledAt time.Time `json:"scheduledAt"`

	BrokerID     string `json:"brokerId"`
	DispatcherID string `json:"dispatcherId"`
	DriverID     string `json:"driverId"`
	TruckID      string `json:"truckId"`
	TrailerID    string `json:"trailerId"`

	BrokerPayment     float64 `json:"brokerPayment"`
	DriverPayment     float64 `json:"driverPayment"`
	TruckPayment      float64 `json:"truckPayment"`
	DispatcherPayment float64 `json:"dispatcherPayment"`
}

// DispatchTrip creates a new trip in scheduled state.
func (h *TripHandler) DispatchTrip(c *fiber.Ctx) error {
	var in DispatchTripInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.Origin == "" || in.Destination == "" || in.ScheduledAt.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Origin, destination, and scheduledAt are required",
		})
	}
	if in.BrokerPayment < 0 || in.DriverPayment < 0 || in.TruckPayment < 0 || in.DispatcherPayment < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payments must be non-negative"})
	}

	carrierID := middleware.CarrierID(c)
	now := time.Now()
	trip := &models.Trip{
		ID:                uuid.NewString(),
		CarrierID:         carrierID,
		Status:            models.TripScheduled,
		Origin:            in.Origin,
		Destination:       in.Destination,
		ScheduledAt:       in.ScheduledAt,
		BrokerID:          in.BrokerID,
		DispatcherID:      in.DispatcherID,
		DriverID:          in.DriverID,
		TruckID:           in.TruckID,
		TrailerID:         in.TrailerID,
		BrokerPayment:     in.BrokerPayment,
		DriverPayment:     in.DriverPayment,
		TruckPayment:      in.TruckPayment,
		DispatcherPayment: in.DispatcherPayment,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	h.denormaliseBrokerName(c, trip)

	if err := h.store.CreateTrip(c.Context(), trip); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create trip"})
	}
	return c.Status(fiber.StatusCreated).JSON(trip)
}

// GetTrip retrieves a single trip by id.
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	trip, err := h.store.GetTrip(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trip not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load trip"})
	}
	return c.JSON(trip)
}

// UpdateTrip applies the allow-listed mutable fields to a trip.
func (h *TripHandler) UpdateTrip(c *fiber.Ctx) error {
	var update models.TripUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	carrierID := middleware.CarrierID(c)
	trip, err := h.store.GetTrip(c.Context(), carrierID, c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trip not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load trip"})
	}

	brokerBefore := trip.BrokerID
	update.Apply(trip)
	trip.UpdatedAt = time.Now()
	if trip.BrokerID != brokerBefore {
		trip.BrokerName = ""
		h.denormaliseBrokerName(c, trip)
	}

	if err := h.store.UpdateTrip(c.Context(), trip); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update trip"})
	}
	return c.JSON(trip)
}

// UpdateTripStatus advances the trip lifecycle by one step, or cancels.
func (h *TripHandler) UpdateTripStatus(c *fiber.Ctx) error {
	var in struct {
		Status models.TripStatus `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !in.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status value"})
	}

	carrierID := middleware.CarrierID(c)
	trip, err := h.store.GetTrip(c.Context(), carrierID, c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trip not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load trip"})
	}

	if !trip.Status.CanTransitionTo(in.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status transition",
			"from":  trip.Status,
			"to":    in.Status,
		})
	}

	now := time.Now()
	trip.Status = in.Status
	trip.UpdatedAt = now
	switch in.Status {
	case models.TripPickedUp:
		trip.PickedUpAt = &now
	case models.TripDelivered:
		trip.DeliveredAt = &now
	}

	if err := h.store.UpdateTrip(c.Context(), trip); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update trip"})
	}
	return c.JSON(trip)
}

// denormaliseBrokerName copies the broker display name onto the trip for
// table rendering. Best effort: a missing broker leaves the field empty.
func (h *TripHandler) denormaliseBrokerName(c *fiber.Ctx, trip *models.Trip) {
	if trip.BrokerID == "" {
		return
	}
	broker, err := h.store.GetBroker(c.Context(), trip.CarrierID, trip.BrokerID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logrus.WithError(err).Warn("broker name lookup failed")
		}
		return
	}
	trip.BrokerName = broker.Name
}
