package http_handler

import (
	"errors"
	"strings"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/gofiber/fiber/v2"
)

const localUserKey = "authUser"

// requireAuth validates the bearer token and stores the account on the
// request context. Stale tokens from a superseded login get a distinct
// message so clients can force a re-login.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return s.sendJSONError(c, fiber.StatusUnauthorized, "Missing or invalid Authorization header")
	}

	user, err := s.svc.Auth.Authenticate(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionInvalidated):
			return s.sendJSONError(c, fiber.StatusUnauthorized, "SESSION_INVALIDATED")
		case errors.Is(err, domain.ErrUserBanned):
			return s.sendJSONError(c, fiber.StatusForbidden, "Account is banned")
		default:
			return s.sendJSONError(c, fiber.StatusUnauthorized, "Invalid token")
		}
	}

	c.Locals(localUserKey, user)
	return c.Next()
}

func (s *Server) requireAdmin(c *fiber.Ctx) error {
	if !s.currentUser(c).IsAdmin() {
		return s.sendJSONError(c, fiber.StatusForbidden, "Admin access required")
	}
	return c.Next()
}

// currentUser must only be called behind requireAuth.
func (s *Server) currentUser(c *fiber.Ctx) *domain.User {
	return c.Locals(localUserKey).(*domain.User)
}
