package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haulhub-io/haulhub-backend/internal/middleware"
	"github.com/haulhub-io/haulhub-backend/internal/models"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

// ResolveHandler serves the batched id→display-name lookup the client name
// cache depends on.
type ResolveHandler struct {
	store storage.Store
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(store storage.Store) *ResolveHandler {
	return &ResolveHandler{store: store}
}

// ResolveEntities resolves ids grouped by kind in one call. Ids without a
// backing record are absent from the response; clients negative-cache them.
func (h *ResolveHandler) ResolveEntities(c *fiber.Ctx) error {
	var req models.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	for kind := range req {
		if !kind.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown entity kind: " + string(kind)})
		}
	}

	carrierID := middleware.CarrierID(c)
	resp := models.ResolveResponse{}
	for kind, ids := range req {
		if len(ids) == 0 {
			continue
		}
		names, err := h.store.ResolveNames(c.Context(), carrierID, kind, ids)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve names"})
		}
		resp[kind] = names
	}
	return c.JSON(resp)
}
