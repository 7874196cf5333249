package handler

import (
	"errors"
	"net/url"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RoleHandler struct {
	uc usecase.CatalogUsecase
}

func NewRoleHandler(uc usecase.CatalogUsecase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

func (h *RoleHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/roles")
	grp.Get("/", h.List)
	grp.Get("/:name", h.Get)
}

func (h *RoleHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListRoles(c.Context())
	if err != nil {
		return mapCatalogUsecaseError(err)
	}

	res := make([]dto.RoleResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.RoleResponse{Name: it.Name, Skills: it.Skills})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *RoleHandler) Get(c fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	it, err := h.uc.GetRole(c.Context(), name)
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RoleResponse{Name: it.Name, Skills: it.Skills})
}

func mapCatalogUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrRoleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Role not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
