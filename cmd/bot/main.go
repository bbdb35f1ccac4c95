package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"giveaway-bot-backend/internal/common/config"
	"giveaway-bot-backend/internal/common/logger"
	"giveaway-bot-backend/internal/common/middleware"
	giveawayhttp "giveaway-bot-backend/internal/features/giveaway/delivery/http"
	"giveaway-bot-backend/internal/features/giveaway/repository"
	filerepo "giveaway-bot-backend/internal/features/giveaway/repository/file"
	redisrepo "giveaway-bot-backend/internal/features/giveaway/repository/redis"
	"giveaway-bot-backend/internal/features/giveaway/service"
	"giveaway-bot-backend/internal/platform/discord"
	redisplatform "giveaway-bot-backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()
	logger.Init("giveaway-bot-backend", cfg.Debug)

	repo, err := buildRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize state store")
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("state store initialized")

	client, err := discord.NewClient(cfg.Discord.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create discord client")
	}

	svc, err := service.NewService(context.Background(), repo, client, service.SystemClock(), cfg.Sweep.FetchTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize giveaway service")
	}

	bot := discord.NewBot(client, svc, cfg.Discord.GuildID)
	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start discord bot")
	}
	defer bot.Stop()

	expiration := service.NewExpirationService(svc, service.SystemClock(), cfg.Sweep.Interval)
	expiration.Start()
	defer expiration.Stop()

	server := buildServer(cfg, svc, repo)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}

func buildRepository(cfg *config.Config) (repository.StateRepository, error) {
	switch cfg.Storage.Backend {
	case "redis":
		client, err := redisplatform.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return redisrepo.NewRepository(client), nil
	case "file":
		return filerepo.NewRepository(cfg.Storage.FilePath), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func buildServer(cfg *config.Config, svc service.GiveawayService, repo repository.StateRepository) *http.Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	giveawayhttp.NewGiveawayHandler(svc).RegisterRoutes(v1)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "giveaway-bot-backend",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repo.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "state store unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
