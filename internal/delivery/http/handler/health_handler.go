package handler

import (
	"skill-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	catalogVersion string
}

func NewHealthHandler(catalogVersion string) *HealthHandler {
	return &HealthHandler{catalogVersion: catalogVersion}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"catalog_version": h.catalogVersion,
	})
}
