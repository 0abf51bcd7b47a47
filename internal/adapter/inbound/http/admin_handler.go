package http_handler

import (
	sdklogger "github.com/anthanhphan/gosdk/logger"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleAdminStats(c *fiber.Ctx) error {
	stats, err := s.svc.Admin.Stats(c.Context())
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(stats)
}

func (s *Server) handleAdminUsers(c *fiber.Ctx) error {
	users, err := s.svc.Admin.ListUsers(c.Context())
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(users)
}

func (s *Server) handleAdminBan(c *fiber.Ctx) error {
	user, err := s.svc.Admin.ToggleBan(c.Context(), s.currentUser(c).ID, c.Params("id"))
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(user)
}

func (s *Server) handleAdminDeleteUser(c *fiber.Ctx) error {
	if err := s.svc.Admin.DeleteUser(c.Context(), s.currentUser(c).ID, c.Params("id")); err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "User deleted"})
}

func (s *Server) handleAdminPendingSongs(c *fiber.Ctx) error {
	songs, err := s.svc.Admin.PendingSongs(c.Context())
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(songs)
}

func (s *Server) handleAdminApproveSong(c *fiber.Ctx) error {
	song, err := s.svc.Admin.ApproveSong(c.Context(), c.Params("id"))
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(song)
}

func (s *Server) handleAdminDeleteSong(c *fiber.Ctx) error {
	if err := s.svc.Song.Delete(c.Context(), c.Params("id"), s.currentUser(c)); err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Song deleted"})
}

func (s *Server) handleAdminIntegrity(c *fiber.Ctx) error {
	report, err := s.svc.Admin.Integrity(c.Context())
	if err != nil {
		sdklogger.Errorw("Integrity audit failed", "error", err.Error())
		return s.sendServiceError(c, err)
	}
	return c.JSON(report)
}
