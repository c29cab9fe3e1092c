package handlers

import "github.com/gofiber/fiber/v2"

// HealthHandler handles health check requests
type HealthHandler struct {
	Version     string
	StorageType string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, storageType string) *HealthHandler {
	return &HealthHandler{
		Version:     version,
		StorageType: storageType,
	}
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"service": "HaulHub Backend",
		"version": h.Version,
		"storage": h.StorageType,
	})
}
