package handler

import (
	"errors"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/domain/matching"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.AnalysisUsecase
}

func NewMatchHandler(uc usecase.AnalysisUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match", h.Match)
}

func (h *MatchHandler) Match(c fiber.Ctx) error {
	var req dto.MatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	out, err := h.uc.Match(c.Context(), usecase.MatchInput{
		Role:   req.Role,
		Tokens: req.Tokens,
		Text:   req.Text,
		TopN:   req.Top,
	})
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchResponse{
		Role:      out.Role,
		RoleKnown: out.RoleKnown,
		Score:     out.Result.Score,
		Matched:   out.Result.Matched.Items(),
		Missing:   out.Result.Missing.Items(),
		Extracted: out.Extracted.Items(),
		TopRoles:  toRankedResponse(out.TopRoles),
	})
}

func toRankedResponse(r matching.Ranked) []dto.RankedRoleResponse {
	out := make([]dto.RankedRoleResponse, 0, len(r))
	for _, it := range r {
		out = append(out, dto.RankedRoleResponse{Role: it.Role, Score: it.Score})
	}
	return out
}

func mapAnalysisUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrFileTooLarge):
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "Resume file too large", nil, err)
	case errors.Is(err, usecase.ErrUnsupportedFile):
		return middleware.NewAppError(fiber.StatusUnsupportedMediaType, "Unsupported resume format, upload PDF, DOCX or TXT", nil, err)
	case errors.Is(err, usecase.ErrAnalysisNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Analysis not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
