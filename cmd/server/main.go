package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rygonet-server/internal/auth"
	"rygonet-server/internal/catalog"
	"rygonet-server/internal/feedback"
	"rygonet-server/internal/middleware"
	"rygonet-server/internal/roster"
	"rygonet-server/internal/server"
	"rygonet-server/internal/sharecode"
	"rygonet-server/internal/shared/config"
	"rygonet-server/internal/shared/database"
	"rygonet-server/internal/shared/logger"
	"rygonet-server/internal/shared/redis"
	"rygonet-server/internal/user"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := config.GlobalConfig

	logger.Init()
	log := slog.With("component", "main")

	oauthConfig := auth.InitOAuth()

	db, err := database.Connect()
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	log.Info("Running database migrations")
	if err := db.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		log.Warn("Redis unavailable, continuing with in-memory fallback", "error", err)
		redisClient = nil
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client", "error", err)
		}
	}()

	catalogStore := catalog.NewStore()
	if err := catalogStore.LoadDir(cfg.Catalog.Dir); err != nil {
		log.Error("Failed to load faction catalog", "error", err, "dir", cfg.Catalog.Dir)
		os.Exit(1)
	}
	catalogService := catalog.NewService(catalogStore, cfg.Catalog.Dir, slog.Default())

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, slog.Default())

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, slog.Default())

	rosterRepo := roster.NewRepository(db)
	rosterService := roster.NewService(rosterRepo, catalogService, slog.Default())

	slugStore := sharecode.NewSlugStore(redisClient)
	shareService := sharecode.NewService(slugStore, cfg.Share.SlugTTL, cfg.Share.BaseURL, slog.Default())

	feedbackRelay := feedback.NewRelay(cfg.Feedback.Endpoint, cfg.Feedback.Token, cfg.Feedback.Timeout, slog.Default())

	routes := server.NewRoutes(
		db,
		userService,
		authService,
		catalogService,
		rosterService,
		shareService,
		feedbackRelay,
		oauthConfig,
		slog.Default(),
	)
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.Server.Environment == "production",
	})
	corsMiddleware := middleware.NewCORS()

	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"factions", len(catalogService.Factions()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced server shutdown", "error", err)
	}

	log.Info("Server stopped")
}
