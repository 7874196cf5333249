package routes

import (
	"skill-match/internal/delivery/http/handler"
	v1 "skill-match/internal/delivery/http/routes/v1"
	"skill-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	v1     v1.Handlers
	ws     *ws.Handler
}

func NewRegistry(health *handler.HealthHandler, v1Handlers v1.Handlers, wsHandler *ws.Handler) *Registry {
	return &Registry{health: health, v1: v1Handlers, ws: wsHandler}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	RegisterV1(app.Group(V1Prefix), r.v1)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws != nil {
		app.Get("/ws/analyses", r.ws.HandleAnalysesWS)
	}
}
