package http_handler

import (
	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/gofiber/fiber/v2"
)

type payoutRequest struct {
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes"`
}

type payoutUpdateRequest struct {
	Status        domain.PayoutStatus `json:"status"`
	TransactionID string              `json:"transactionId"`
	Notes         string              `json:"notes"`
}

func (s *Server) handleGetAdConfig(c *fiber.Ctx) error {
	cfg, err := s.svc.Monetization.GetAdConfig(c.Context())
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(cfg)
}

func (s *Server) handleSaveAdConfig(c *fiber.Ctx) error {
	var cfg domain.AdConfig
	if err := c.BodyParser(&cfg); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	saved, err := s.svc.Monetization.SaveAdConfig(c.Context(), &cfg)
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(saved)
}

func (s *Server) handleRequestPayout(c *fiber.Ctx) error {
	var req payoutRequest
	if err := c.BodyParser(&req); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	payout, err := s.svc.Monetization.RequestPayout(c.Context(), s.currentUser(c).ID, req.Amount, req.Notes)
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payout)
}

func (s *Server) handleListPayouts(c *fiber.Ctx) error {
	payouts, err := s.svc.Monetization.ListPayouts(c.Context())
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(payouts)
}

func (s *Server) handleUpdatePayout(c *fiber.Ctx) error {
	var req payoutUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	payout, err := s.svc.Monetization.UpdatePayout(c.Context(), c.Params("id"), req.Status, req.TransactionID, req.Notes)
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(payout)
}
