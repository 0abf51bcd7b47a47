package http_handler

import (
	"io"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	sdklogger "github.com/anthanhphan/gosdk/logger"
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	token, user, err := s.svc.Auth.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return s.sendServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	token, user, err := s.svc.Auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return s.sendServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	user, err := s.svc.Auth.GetProfile(c.Context(), s.currentUser(c).ID)
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(user)
}

func (s *Server) handleChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := s.svc.Auth.ChangePassword(c.Context(), s.currentUser(c).ID, req.OldPassword, req.NewPassword); err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Password updated"})
}

// handleSetAvatar streams the 'avatar' part straight into the blob store.
func (s *Server) handleSetAvatar(c *fiber.Ctx) error {
	mr, err := multipartStream(c)
	if err != nil {
		return s.sendServiceError(c, err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.sendJSONError(c, fiber.StatusBadRequest, "Malformed multipart body")
		}
		if part.FormName() != "avatar" || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		user, err := s.svc.Auth.SetAvatar(c.Context(), s.currentUser(c).ID, filePart(part))
		if err != nil {
			sdklogger.Warnw("Avatar update failed", "user_id", s.currentUser(c).ID, "error", err.Error())
			return s.sendServiceError(c, err)
		}
		return c.JSON(user)
	}

	return s.sendJSONError(c, fiber.StatusBadRequest, "Missing 'avatar' part")
}

func (s *Server) handleAvatarStream(c *fiber.Ctx) error {
	return s.streamBlob(c, domain.BucketAvatars, c.Params("filename"))
}
