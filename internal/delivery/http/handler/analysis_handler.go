package handler

import (
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/domain/analysis"
	"skill-match/internal/pkg/jwt"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const resumeFormField = "resume"

type AnalysisHandler struct {
	uc       usecase.AnalysisUsecase
	tokens   jwt.Service
	basePath string
}

// NewAnalysisHandler builds report links under basePath, the prefix the
// handler's routes are mounted at.
func NewAnalysisHandler(uc usecase.AnalysisUsecase, tokens jwt.Service, basePath string) *AnalysisHandler {
	return &AnalysisHandler{uc: uc, tokens: tokens, basePath: strings.TrimRight(basePath, "/")}
}

func (h *AnalysisHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/analyses")
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Get("/:id/report", h.DownloadReport)
}

func (h *AnalysisHandler) Create(c fiber.Ctx) error {
	fh, err := c.FormFile(resumeFormField)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Resume file is required", nil, err)
	}

	top := 0
	if s := strings.TrimSpace(c.FormValue("top")); s != "" {
		top, err = strconv.Atoi(s)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.Analyze(c.Context(), usecase.AnalyzeInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
		Role:        c.FormValue("role"),
		TopN:        top,
	})
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}

	res, err := h.toResponse(a)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, res)
}

func (h *AnalysisHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}

	res, err := h.toResponse(a)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AnalysisHandler) DownloadReport(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if h.tokens == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Report downloads are disabled", nil, nil)
	}
	if _, err := h.tokens.ValidateDownloadToken(c.Query("token"), id); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Download link expired", nil, err)
		}
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid download token", nil, err)
	}

	art, err := h.uc.Report(c.Context(), id)
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Attachment(c, art.Filename, art.ContentType, art.Data)
}

func (h *AnalysisHandler) toResponse(a analysis.Analysis) (dto.AnalysisResponse, error) {
	res := dto.AnalysisResponse{
		ID:               a.ID,
		Filename:         a.Filename,
		ContentType:      a.ContentType,
		Role:             a.Role,
		RoleKnown:        a.RoleKnown,
		Score:            a.Result.Score,
		Matched:          a.Result.Matched.Items(),
		Missing:          a.Result.Missing.Items(),
		Extracted:        a.Extracted.Items(),
		ExtractionFailed: a.ExtractionFailed,
		TopRoles:         toRankedResponse(a.TopRoles),
		CreatedAt:        a.CreatedAt,
	}

	if h.tokens == nil {
		return res, nil
	}
	tok, exp, err := h.tokens.GenerateDownloadToken(a.ID)
	if err != nil {
		return dto.AnalysisResponse{}, middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	res.ReportURL = h.reportURL(a.ID, tok)
	expUTC := exp.UTC().Truncate(time.Second)
	res.ReportExpiresAt = &expUTC
	return res, nil
}

func (h *AnalysisHandler) reportURL(id uuid.UUID, token string) string {
	return h.basePath + "/analyses/" + id.String() + "/report?token=" + url.QueryEscape(token)
}
