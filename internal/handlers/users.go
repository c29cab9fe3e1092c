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

// UserHandler handles driver and dispatcher CRUD requests.
type UserHandler struct {
	store storage.Store
}

// NewUserHandler creates a new user handler.
func NewUserHandler(store storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

// CreateUser handles creating a new driver or dispatcher.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var in struct {
		Role      models.UserRole `json:"role"`
		Name      string          `json:"name"`
		Phone     string          `json:"phone"`
		LicenseNo string          `json:"licenseNumber"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}
	if in.Role != models.RoleDriver && in.Role != models.RoleDispatcher {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Role must be driver or dispatcher"})
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.NewString(),
		CarrierID: middleware.CarrierID(c),
		Role:      in.Role,
		Name:      in.Name,
		Phone:     in.Phone,
		LicenseNo: in.LicenseNo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.CreateUser(c.Context(), user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser retrieves a single user by id.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.store.GetUser(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}
	return c.JSON(user)
}

// ListUsers retrieves the carrier's users, optionally filtered by role.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	role := models.UserRole(c.Query("role"))
	if role != "" && role != models.RoleDriver && role != models.RoleDispatcher {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Role must be driver or dispatcher"})
	}
	users, err := h.store.ListUsers(c.Context(), middleware.CarrierID(c), role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list users"})
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// UpdateUser applies the allow-listed mutable fields to a user.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var update models.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.store.GetUser(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	update.Apply(user)
	user.UpdatedAt = time.Now()
	if err := h.store.UpdateUser(c.Context(), user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}
	return c.JSON(user)
}

// DeleteUser soft-deletes a user.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	err := h.store.DeleteUser(c.Context(), middleware.CarrierID(c), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
