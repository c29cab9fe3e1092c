package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/haulhub-io/haulhub-backend/internal/middleware"
	"github.com/haulhub-io/haulhub-backend/internal/models"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

// EquipmentHandler handles truck and trailer CRUD requests.
type EquipmentHandler struct {
	store storage.Store
}

// NewEquipmentHandler creates a new equipment handler.
func NewEquipmentHandler(store storage.Store) *EquipmentHandler {
	return &EquipmentHandler{store: store}
}

// Truck operations

func (h *EquipmentHandler) CreateTruck(c *fiber.Ctx) error {
	var in struct {
		UnitNumber string `json:"unitNumber"`
		Make       string `json:"make"`
		ModelName  string `json:"model"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.UnitNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unit number is required"})
	}

	now := time.Now()
	truck := &models.Truck{
		ID:         uuid.NewString(),
		CarrierID:  middleware.CarrierID(c),
		UnitNumber: in.UnitNumber,
		Make:       in.Make,
		ModelName:  in.ModelName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.store.CreateTruck(c.Context(), truck); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create truck"})
	}
	return c.Status(fiber.StatusCreated).JSON(truck)
}

func (h *EquipmentHandler) GetTruck(c *fiber.Ctx) error {
	truck, err := h.store.GetTruck(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Truck not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load truck"})
	}
	return c.JSON(truck)
}

func (h *EquipmentHandler) ListTrucks(c *fiber.Ctx) error {
	trucks, err := h.store.ListTrucks(c.Context(), middleware.CarrierID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list trucks"})
	}
	return c.JSON(fiber.Map{"trucks": trucks, "count": len(trucks)})
}

func (h *EquipmentHandler) UpdateTruck(c *fiber.Ctx) error {
	var update models.TruckUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	truck, err := h.store.GetTruck(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Truck not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load truck"})
	}

	update.Apply(truck)
	truck.UpdatedAt = time.Now()
	if err := h.store.UpdateTruck(c.Context(), truck); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update truck"})
	}
	return c.JSON(truck)
}

func (h *EquipmentHandler) DeleteTruck(c *fiber.Ctx) error {
	err := h.store.DeleteTruck(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Truck not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete truck"})
	}
	return c.JSON(fiber.Map{"message": "Truck deleted"})
}

// Trailer operations

func (h *EquipmentHandler) CreateTrailer(c *fiber.Ctx) error {
	var in struct {
		UnitNumber string `json:"unitNumber"`
		Type       string `json:"type"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.UnitNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unit number is required"})
	}

	now := time.Now()
	trailer := &models.Trailer{
		ID:         uuid.NewString(),
		CarrierID:  middleware.CarrierID(c),
		UnitNumber: in.UnitNumber,
		Type:       in.Type,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.store.CreateTrailer(c.Context(), trailer); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create trailer"})
	}
	return c.Status(fiber.StatusCreated).JSON(trailer)
}

func (h *EquipmentHandler) GetTrailer(c *fiber.Ctx) error {
	trailer, err := h.store.GetTrailer(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trailer not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load trailer"})
	}
	return c.JSON(trailer)
}

func (h *EquipmentHandler) ListTrailers(c *fiber.Ctx) error {
	trailers, err := h.store.ListTrailers(c.Context(), middleware.CarrierID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list trailers"})
	}
	return c.JSON(fiber.Map{"trailers": trailers, "count": len(trailers)})
}

func (h *EquipmentHandler) UpdateTrailer(c *fiber.Ctx) error {
	var update models.TrailerUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	trailer, err := h.store.GetTrailer(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trailer not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load trailer"})
	}

	update.Apply(trailer)
	trailer.UpdatedAt = time.Now()
	if err := h.store.UpdateTrailer(c.Context(), trailer); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update trailer"})
	}
	return c.JSON(trailer)
}

func (h *EquipmentHandler) DeleteTrailer(c *fiber.Ctx) error {
	err := h.store.DeleteTrailer(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trailer not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete trailer"})
	}
	return c.JSON(fiber.Map{"message": "Trailer deleted"})
}
