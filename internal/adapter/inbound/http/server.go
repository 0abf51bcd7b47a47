package http_handler

import (
	"context"
	"errors"

	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/pkg/httprange"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth         port.AuthService
	Song         port.SongService
	Stream       port.StreamService
	Admin        port.AdminService
	Monetization port.MonetizationService
	Dispatcher   port.Dispatcher
}

type Server struct {
	app *fiber.App
	cfg *config.Config
	svc Services
}

func NewServer(cfg *config.Config, svc Services) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:         int(cfg.App.MaxSongSize + cfg.App.MaxCoverSize + 1<<20),
		StreamRequestBody: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	s := &Server{
		app: app,
		cfg: cfg,
		svc: svc,
	}

	// Routes
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", s.handleRegister)
	auth.Post("/login", s.handleLogin)
	auth.Get("/profile", s.requireAuth, s.handleProfile)
	auth.Post("/change-password", s.requireAuth, s.handleChangePassword)
	auth.Post("/profile/photo", s.requireAuth, s.handleSetAvatar)
	auth.Get("/avatar/:filename", s.handleAvatarStream)

	song := api.Group("/song")
	song.Post("/upload", s.requireAuth, s.handleSongUpload)
	song.Get("/", s.handleSongList)
	song.Get("/stream/:fileId", s.handleSongStream)
	song.Get("/cover/:filename", s.handleCoverStream)
	song.Put("/like/:id", s.requireAuth, s.handleSongLike)
	song.Post("/view/:id", s.requireAuth, s.handleSongView)
	song.Get("/:id", s.handleSongGet)

	admin := api.Group("/admin", s.requireAuth, s.requireAdmin)
	admin.Get("/stats", s.handleAdminStats)
	admin.Get("/users", s.handleAdminUsers)
	admin.Put("/users/:id/ban", s.handleAdminBan)
	admin.Delete("/users/:id", s.handleAdminDeleteUser)
	admin.Get("/songs/pending", s.handleAdminPendingSongs)
	admin.Put("/songs/:id/approve", s.handleAdminApproveSong)
	admin.Delete("/songs/:id", s.handleAdminDeleteSong)
	admin.Get("/integrity", s.handleAdminIntegrity)

	mon := api.Group("/monetization")
	mon.Get("/ads", s.handleGetAdConfig)
	mon.Post("/ads", s.requireAuth, s.requireAdmin, s.handleSaveAdConfig)
	mon.Post("/payouts/request", s.requireAuth, s.handleRequestPayout)
	mon.Get("/payouts", s.requireAuth, s.requireAdmin, s.handleListPayouts)
	mon.Put("/payouts/:id", s.requireAuth, s.requireAdmin, s.handleUpdatePayout)

	notif := api.Group("/notification", s.requireAuth, s.requireAdmin)
	notif.Post("/", s.handleNotifyTopic)
	notif.Post("/send-to-token", s.handleNotifyToken)
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) sendJSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"msg": message,
	})
}

// sendServiceError maps domain sentinels onto HTTP statuses.
func (s *Server) sendServiceError(c *fiber.Ctx, err error) error {
	return s.sendJSONError(c, statusFor(err), err.Error())
}

func statusFor(err error) int {
	var badMP badMultipartError
	switch {
	case errors.As(err, &badMP):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrSongNotFound),
		errors.Is(err, domain.ErrPayoutNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrEmptyUpload),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, httprange.ErrMalformed):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrRangeNotSatisfiable):
		return fiber.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, domain.ErrUserBanned),
		errors.Is(err, domain.ErrAdminOnly):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrSessionInvalidated):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
