package app

import (
	"context"
	"fmt"
	"strings"

	"skill-match/internal/config"
	"skill-match/internal/delivery/http/handler"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/delivery/http/routes"
	v1 "skill-match/internal/delivery/http/routes/v1"
	"skill-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// multipart framing on top of the resume itself
const bodyLimitSlack = 1 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: int(c.Config.Match.UploadMaxBytes) + bodyLimitSlack,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(log)
	accessMw := middleware.NewAccessLogMiddleware(log.Named("http"))
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	reg := routes.NewRegistry(
		handler.NewHealthHandler(c.Catalog.Version()),
		v1.Handlers{
			Roles:    handler.NewRoleHandler(c.Roles),
			Match:    handler.NewMatchHandler(c.Analyses),
			Analyses: handler.NewAnalysisHandler(c.Analyses, c.Tokens, routes.V1Prefix),
		},
		ws.NewHandler(c.Hub, c.Config.App.WSAllowedOrigins, c.Logger.Named("ws")),
	)
	reg.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
