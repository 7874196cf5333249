package ws

import (
	"net/http"
	"strings"

	"skill-match/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler serves analysis events over websocket. allowedOrigins is
// matched case-insensitively against the Origin header; empty allows all.
func NewHandler(hub *Hub, allowedOrigins []string, log *zap.Logger) *Handler {
	h := &Handler{hub: hub, logger: logger.OrNop(log)}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[strings.ToLower(r.Header.Get("Origin"))]
		return ok
	}
}

// HandleAnalysesWS streams analysis_completed events to the client.
func (h *Handler) HandleAnalysesWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.String("origin", r.Header.Get("Origin")), zap.Error(err))
			return
		}

		client := NewClient(h.hub, conn)
		h.hub.Register(client)
		h.logger.Debug("ws client connected", zap.String("remote", r.RemoteAddr))
		go client.WritePump()
		go client.ReadPump()
	})(c)
}
