// Package main - точка входа для DevHelp backend.
//
// DevHelp соединяет студентов, у которых возник вопрос (doubt), с
// менторами, которые могут его разрешить. Студент публикует вопрос,
// менторы комментируют и закрывают его, владелец получает уведомление
// и при необходимости может открыть вопрос заново.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, кеш, шина событий
// - Interface: HTTP endpoints
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/devhelp-hub/devhelp-backend/config"
	"github.com/devhelp-hub/devhelp-backend/internal/application/command"
	"github.com/devhelp-hub/devhelp-backend/internal/application/query"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/comment"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/auth"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/messaging"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/persistence/memory"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/persistence/postgres"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/persistence/redis"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/service"
	httpserver "github.com/devhelp-hub/devhelp-backend/internal/interface/http"
	"github.com/devhelp-hub/devhelp-backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Default().Fatal("server failed", logger.Err(err))
	}
}

func run() error {
	// ─────────────────────────────────────────────────────────────────────────
	// Configuration
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})

	slogLevel := slog.LevelInfo
	if cfg.App.Debug {
		slogLevel = slog.LevelDebug
	}
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))

	log.Info("starting devhelp backend",
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────────
	// Persistence
	// ─────────────────────────────────────────────────────────────────────────
	var (
		doubtRepo        doubt.Repository
		commentRepo      comment.Repository
		notificationRepo notification.Repository
		dbHealth         httpserver.HealthChecker
	)

	if cfg.Database.InMemory {
		log.Warn("using in-memory store, data will not survive a restart")
		doubtRepo = memory.NewDoubtRepository()
		commentRepo = memory.NewCommentRepository()
		notificationRepo = memory.NewNotificationRepository()
	} else {
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if cfg.Database.MigrateOnStart {
			migrator := postgres.NewMigrator(conn)
			if err := migrator.Migrate(ctx); err != nil {
				return err
			}
			log.Info("database migrations applied")
		}

		doubtRepo = postgres.NewDoubtRepository(conn)
		commentRepo = postgres.NewCommentRepository(conn)
		notificationRepo = postgres.NewNotificationRepository(conn)
		dbHealth = conn
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Cache (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		unreadCounter notification.UnreadCounter
		cacheHealth   httpserver.HealthChecker
	)

	if !cfg.Redis.Disabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			// The unread counter falls back to counting in the database.
			log.Warn("redis unavailable, continuing without cache", logger.Err(err))
		} else {
			defer cache.Close()
			unreadCounter = redis.NewUnreadCounterCache(cache)
			cacheHealth = cache
			log.Info("redis cache connected", logger.String("addr", redisCfg.Addr()))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Event Bus
	// ─────────────────────────────────────────────────────────────────────────
	eventBus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 4,
		Logger:         slogger,
		EnableMetrics:  true,
	})
	defer eventBus.Close()

	// Audit trail: every domain event gets a log line.
	_ = eventBus.SubscribeAll(func(event shared.Event) error {
		slogger.Debug("domain event",
			slog.String("type", string(event.EventType())),
			slog.String("aggregate_id", event.AggregateID()),
		)
		return nil
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Services & Handlers
	// ─────────────────────────────────────────────────────────────────────────
	tokens, err := auth.NewTokenValidator(auth.Config{
		Secret: []byte(cfg.Auth.Secret),
		Issuer: cfg.Auth.Issuer,
		Leeway: cfg.Auth.Leeway,
	})
	if err != nil {
		return err
	}

	ids := service.NewIDGenerator()
	notifications := service.NewNotificationService(notificationRepo, unreadCounter, ids, eventBus, slogger)

	deps := httpserver.Dependencies{
		CreateDoubt:          command.NewCreateDoubtHandler(doubtRepo, ids, eventBus),
		ResolveDoubt:         command.NewResolveDoubtHandler(doubtRepo, notifications, eventBus),
		ReopenDoubt:          command.NewReopenDoubtHandler(doubtRepo, eventBus),
		AddComment:           command.NewAddCommentHandler(doubtRepo, commentRepo, ids, eventBus),
		DeleteDoubt:          command.NewDeleteDoubtHandler(doubtRepo, eventBus),
		MarkNotificationRead: command.NewMarkNotificationReadHandler(notifications),

		ListDoubts:        query.NewListDoubtsHandler(doubtRepo),
		ListDoubtsByOwner: query.NewListDoubtsByOwnerHandler(doubtRepo),
		GetDoubt:          query.NewGetDoubtHandler(doubtRepo, commentRepo),
		ListComments:      query.NewListCommentsHandler(doubtRepo, commentRepo),
		ListNotifications: query.NewListNotificationsHandler(notificationRepo),
		UnreadCount:       query.NewUnreadCountHandler(notifications),

		Tokens:   tokens,
		Logger:   log,
		Database: dbHealth,
		Cache:    cacheHealth,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP Server
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(serverCfg, deps)

	errCh := server.StartAsync()
	log.Info("HTTP server listening", logger.String("address", server.Address()))

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Err(err))
		return err
	}

	log.Info("server stopped")
	return nil
}
