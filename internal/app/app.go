package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpHandler "github.com/anthanhphan/go-music-streaming/internal/adapter/inbound/http"
	"github.com/anthanhphan/go-music-streaming/internal/adapter/outbound/blobstore"
	"github.com/anthanhphan/go-music-streaming/internal/adapter/outbound/push"
	"github.com/anthanhphan/go-music-streaming/internal/adapter/outbound/registry"
	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/internal/service"
	"github.com/anthanhphan/go-music-streaming/pkg/idgen"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg        *config.Config
	server     *httpHandler.Server
	store      *blobstore.Store
	redis      *redis.Client
	dispatcher *service.NotificationDispatcher
	sweeper    *service.Sweeper
}

func New(configPath string) (*App, error) {
	// 1. Load Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize Logger
	logger.InitLogger(&cfg.Logger)

	// 3. Initialize Redis and Snowflake IDGen
	redisClient, err := registry.NewClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	redisClock := idgen.NewRedisClock(redisClient)
	idGen, err := idgen.New(cfg.App.NodeID, redisClock)
	if err != nil {
		return nil, fmt.Errorf("failed to init snowflake: %w", err)
	}

	// 4. Blob Store
	store, err := blobstore.New(cfg.Store, cfg.App.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	// 5. Repositories
	users := registry.NewUserRepo(redisClient)
	sessions := registry.NewSessionRepo(redisClient)
	songs := registry.NewSongRepo(redisClient)
	monetization := registry.NewMonetizationRepo(redisClient)

	// 6. Push Dispatcher
	var notifier port.Notifier
	if cfg.Push.Enabled {
		notifier = push.NewFCMNotifier(cfg.Push)
	}
	dispatcher := service.NewDispatcher(notifier, cfg.App.DispatchWorkers, cfg.Push.Enabled)

	// 7. Services
	sink := service.NewUploadSink(store, idGen, cfg.App)
	sweeper := service.NewSweeper(store,
		time.Duration(cfg.App.SweepIntervalMin)*time.Minute,
		time.Duration(cfg.App.PendingTTLMin)*time.Minute,
		cfg.Store.CompactionThreshold)

	svc := httpHandler.Services{
		Auth:         service.NewAuthService(users, sessions, sink, store, idGen, cfg.Auth),
		Song:         service.NewSongService(songs, store, sink, idGen, dispatcher),
		Stream:       service.NewStreamService(store),
		Admin:        service.NewAdminService(users, sessions, songs, store, dispatcher),
		Monetization: service.NewMonetizationService(monetization, idGen, dispatcher),
		Dispatcher:   dispatcher,
	}

	// 8. HTTP Server
	httpServer := httpHandler.NewServer(cfg, svc)

	return &App{
		cfg:        cfg,
		server:     httpServer,
		store:      store,
		redis:      redisClient,
		dispatcher: dispatcher,
		sweeper:    sweeper,
	}, nil
}

func (a *App) Run() error {
	// Start the pending-upload sweeper
	a.sweeper.Start(context.Background())

	// Start HTTP
	logger.Infow("Music streaming server starting", "addr", a.cfg.Server.Addr)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		logger.Infow("Shutdown signal received", "signal", sig.String())
	case err := <-serverErrCh:
		runErr = fmt.Errorf("http server failed: %w", err)
		logger.Errorw("HTTP server exited unexpectedly", "error", err.Error())
	}

	logger.Info("Shutting down")
	if err := a.server.Stop(context.Background()); err != nil {
		logger.Errorw("HTTP shutdown error", "error", err.Error())
		if runErr == nil {
			runErr = err
		}
	}
	a.sweeper.Stop()
	a.dispatcher.Close()
	if err := a.store.Close(); err != nil {
		logger.Errorw("Blob store close error", "error", err.Error())
		if runErr == nil {
			runErr = err
		}
	}
	if err := a.redis.Close(); err != nil {
		logger.Errorw("Redis close error", "error", err.Error())
	}

	return runErr
}
