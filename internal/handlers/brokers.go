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

// BrokerHandler handles broker CRUD requests.
type BrokerHandler struct {
	store storage.Store
}

// NewBrokerHandler creates a new broker handler.
func NewBrokerHandler(store storage.Store) *BrokerHandler {
	return &BrokerHandler{store: store}
}

// CreateBroker handles creating a new broker.
func (h *BrokerHandler) CreateBroker(c *fiber.Ctx) error {
	var in struct {
		Name     string `json:"name"`
		MCNumber string `json:"mcNumber"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	now := time.Now()
	broker := &models.Broker{
		ID:        uuid.NewString(),
		CarrierID: middleware.CarrierID(c),
		Name:      in.Name,
		MCNumber:  in.MCNumber,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.CreateBroker(c.Context(), broker); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create broker"})
	}
	return c.Status(fiber.StatusCreated).JSON(broker)
}

// GetBroker retrieves a single broker by id.
func (h *BrokerHandler) GetBroker(c *fiber.Ctx) error {
	broker, err := h.store.GetBroker(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Broker not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load broker"})
	}
	return c.JSON(broker)
}

// ListBrokers retrieves all brokers of the carrier.
func (h *BrokerHandler) ListBrokers(c *fiber.Ctx) error {
	brokers, err := h.store.ListBrokers(c.Context(), middleware.CarrierID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list brokers"})
	}
	return c.JSON(fiber.Map{"brokers": brokers, "count": len(brokers)})
}

// UpdateBroker applies the allow-listed mutable fields to a broker.
func (h *BrokerHandler) UpdateBroker(c *fiber.Ctx) error {
	var update models.BrokerUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	broker, err := h.store.GetBroker(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Broker not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load broker"})
	}

	update.Apply(broker)
	broker.UpdatedAt = time.Now()
	if err := h.store.UpdateBroker(c.Context(), broker); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update broker"})
	}
	return c.JSON(broker)
}

// DeleteBroker soft-deletes a broker. Trips referencing it keep their id;
// name resolution degrades to a placeholder.
func (h *BrokerHandler) DeleteBroker(c *fiber.Ctx) error {
	err := h.store.DeleteBroker(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Broker not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete broker"})
	}
	return c.JSON(fiber.Map{"message": "Broker deleted"})
}
