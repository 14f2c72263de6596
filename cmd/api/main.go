// Package main is the entry point for the mentorship hub API server.
//
// The process serves the REST API and the realtime chat socket from one
// listener. Architecture follows Clean Architecture and DDD:
//   - Domain: matching, profiles, availability, reviews, chat, sessions
//   - Application: use-case orchestration (Commands/Queries)
//   - Infrastructure: PostgreSQL and Redis persistence, availability oracle
//   - Interface: HTTP handlers and the websocket gateway
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mentorhub/mentorship-hub/config"
	"github.com/mentorhub/mentorship-hub/internal/application/command"
	"github.com/mentorhub/mentorship-hub/internal/application/query"
	"github.com/mentorhub/mentorship-hub/internal/domain/matching"
	"github.com/mentorhub/mentorship-hub/internal/infrastructure/persistence/postgres"
	redisinfra "github.com/mentorhub/mentorship-hub/internal/infrastructure/persistence/redis"
	"github.com/mentorhub/mentorship-hub/internal/infrastructure/service"
	httpserver "github.com/mentorhub/mentorship-hub/internal/interface/http"
	"github.com/mentorhub/mentorship-hub/internal/interface/ws"
	"github.com/mentorhub/mentorship-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	level := logger.LevelInfo
	if cfg.App.Debug {
		level = logger.LevelDebug
	}
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     level,
		AddCaller: cfg.App.Debug,
	})

	log.Info("starting mentorship hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. PostgreSQL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if cfg.Database.AutoMigrate {
		log.Info("running database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Redis
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis")
	redisClient, err := redisinfra.NewClient(ctx, redisinfra.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() {
		log.Info("closing Redis connection")
		_ = redisClient.Close()
	}()

	sessions := redisinfra.NewSessionStore(redisClient)
	presence := redisinfra.NewPresenceTracker(redisClient, cfg.Redis.PresenceTTL)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Repositories
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(dbConn)
	profileRepo := postgres.NewProfileRepository(dbConn)
	slotRepo := postgres.NewAvailabilityRepository(dbConn)
	reviewRepo := postgres.NewReviewRepository(dbConn)
	messageRepo := postgres.NewMessageRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Matching engine
	// ─────────────────────────────────────────────────────────────────────────
	oracle := service.NewAvailabilityOracleWithConfig(slotRepo, service.OracleConfig{
		LookupTimeout:    cfg.Matching.OracleTimeout,
		FailureThreshold: cfg.Matching.OracleFailureThreshold,
		Cooldown:         cfg.Matching.OracleCooldown,
	}, log)
	scorer := matching.NewScorer(matching.DefaultWeights(), oracle)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. Realtime hub
	// ─────────────────────────────────────────────────────────────────────────
	hub := ws.NewHub(log)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. Application layer
	// ─────────────────────────────────────────────────────────────────────────
	sendMessage := command.NewSendMessageHandler(messageRepo, userRepo, hub)
	markSeen := command.NewMarkSeenHandler(messageRepo, hub)

	gateway := ws.NewGateway(
		hub,
		ws.NewSessionAuthenticator(sessions),
		sendMessage,
		markSeen,
		presence,
		log,
	)

	deps := httpserver.Dependencies{
		GetSuggestionsHandler:   query.NewGetSuggestionsHandler(profileRepo, userRepo, reviewRepo, scorer),
		ExplainMatchHandler:     query.NewExplainMatchHandler(profileRepo, userRepo, reviewRepo, scorer),
		GetConversationsHandler: query.NewGetConversationsHandler(messageRepo, userRepo, presence),
		GetHistoryHandler:       query.NewGetHistoryHandler(messageRepo, userRepo),
		ListSlotsHandler:        query.NewListSlotsHandler(slotRepo),
		ListReviewsHandler:      query.NewListReviewsHandler(reviewRepo, userRepo),

		LoginHandler:         command.NewLoginHandler(userRepo, sessions, cfg.Session.TTL),
		LogoutHandler:        command.NewLogoutHandler(sessions),
		UpdateProfileHandler: command.NewUpdateProfileHandler(profileRepo, userRepo),
		SendMessageHandler:   sendMessage,
		MarkSeenHandler:      markSeen,
		CreateSlotHandler:    command.NewCreateSlotHandler(slotRepo),
		DeleteSlotHandler:    command.NewDeleteSlotHandler(slotRepo),
		SubmitReviewHandler:  command.NewSubmitReviewHandler(reviewRepo, profileRepo),

		Sessions:  sessions,
		Presence:  presence,
		WSHandler: gateway.HandleWS,
		Logger:    log,

		HealthChecks: map[string]httpserver.HealthChecker{
			"postgres": httpserver.HealthCheckFunc(dbConn.Ping),
			"redis": httpserver.HealthCheckFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP server
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
	serverErr := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. Wait for shutdown
	// ─────────────────────────────────────────────────────────────────────────
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Err(err))
		return err
	}

	log.Info("shutdown complete")
	return nil
}
