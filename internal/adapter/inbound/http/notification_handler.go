package http_handler

import (
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/gofiber/fiber/v2"
)

type notifyTopicRequest struct {
	Topic string            `json:"topic"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

type notifyTokenRequest struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// Delivery is queued, not awaited: 202 means accepted for dispatch.
func (s *Server) handleNotifyTopic(c *fiber.Ctx) error {
	var req notifyTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.Body == "" {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Missing title or body")
	}
	if req.Topic == "" {
		req.Topic = port.TopicAllUsers
	}

	s.svc.Dispatcher.NotifyTopic(req.Topic, req.Title, req.Body, req.Data)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"msg": "Notification queued"})
}

func (s *Server) handleNotifyToken(c *fiber.Ctx) error {
	var req notifyTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Token == "" || req.Title == "" || req.Body == "" {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Missing token, title, or body")
	}

	s.svc.Dispatcher.NotifyToken(req.Token, req.Title, req.Body, req.Data)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"msg": "Notification queued"})
}
