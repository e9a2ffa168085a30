package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "meetup/backend/docs" // This is important for swag to find the generated docs
	"meetup/backend/internal/cache"
	"meetup/backend/internal/chat"
	"meetup/backend/internal/config"
	"meetup/backend/internal/database"
	"meetup/backend/internal/handler"
	"meetup/backend/internal/log"
	"meetup/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// @title           Meetup Chat API
// @version         1.0
// @description     Event chat rooms, anonymous pre-join chat and direct messages.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig(".")

	log.Init(log.Config{
		Level:       cfg.LogLevel,
		Pretty:      cfg.LogPretty,
		ServiceName: "meetup-chat",
	})
	l := log.L()

	if cfg.JWTSecret == "" {
		l.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		l.Fatal().Err(err).Msg("failed to migrate database")
	}

	repos := chat.Repositories{
		Rooms:        repository.NewGormRoomRepository(db),
		Messages:     repository.NewGormMessageRepository(db),
		Participants: repository.NewGormParticipantRepository(db),
		Users:        repository.NewGormUserRepository(db),
	}

	// The room cache is optional; without Redis every request reads the room from the database.
	var roomCache chat.RoomCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisRoomCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cache.DefaultPrefix)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to create room cache")
		}
		defer redisCache.Close()
		roomCache = redisCache
		l.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.RoomCacheTTL).Msg("room cache enabled")
	}

	authz := chat.NewAuthorizer(repos.Rooms, roomCache, cfg.RoomCacheTTL)
	assigner := chat.NewAssigner(repos.Participants, chat.NewNamePool(cfg.NamePool()))
	chatService := chat.NewService(authz, assigner, repos, cfg.MessageMaxLength)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), log.GinMiddleware(l))
	handler.NewHandler(chatService, repos.Users, cfg.JWTSecret).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		l.Info().Str("port", cfg.Port).Msg("server is running")
		l.Info().Msgf("Swagger UI is available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}
	l.Info().Msg("server exited")
}
