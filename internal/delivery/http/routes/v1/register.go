package v1

import (
	"skill-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Roles    *handler.RoleHandler
	Match    *handler.MatchHandler
	Analyses *handler.AnalysisHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Roles != nil {
		h.Roles.RegisterRoutes(r)
	}
	if h.Match != nil {
		h.Match.RegisterRoutes(r)
	}
	if h.Analyses != nil {
		h.Analyses.RegisterRoutes(r)
	}
}
