package handler

import (
	"interview-prep-be/internal/pkg/logger"
	"interview-prep-be/internal/pkg/serverutils"
	internalWS "interview-prep-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// TopicEventsHandler upgrades authenticated dashboard connections and hands them to the hub.
type TopicEventsHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewTopicEventsHandler(hub *internalWS.Hub, log logger.ILogger) *TopicEventsHandler {
	return &TopicEventsHandler{hub: hub, logger: log}
}

// RegisterRoutes must run before the topic routes so /events/ws is not taken for a topic id.
func (h *TopicEventsHandler) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	r.Get("/topics/v1/events/ws", authMiddleware, h.ServeWs)
}

func (h *TopicEventsHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	ownerID, err := serverutils.OwnerID(c)
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("TopicEventsHandler", "Starting WebSocket session", map[string]interface{}{"user_id": ownerID})
		internalWS.ServeWs(h.hub, conn, ownerID)
		h.logger.Info("TopicEventsHandler", "WebSocket session ended", map[string]interface{}{"user_id": ownerID})
	})(c)
}
