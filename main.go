package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Vaishnavigophane/NestAway-backend/internal/api"
	"github.com/Vaishnavigophane/NestAway-backend/internal/auth"
	"github.com/Vaishnavigophane/NestAway-backend/internal/config"
	"github.com/Vaishnavigophane/NestAway-backend/internal/database"
	"github.com/Vaishnavigophane/NestAway-backend/internal/logger"
	"github.com/Vaishnavigophane/NestAway-backend/internal/services"
	"github.com/Vaishnavigophane/NestAway-backend/internal/session"
	"github.com/Vaishnavigophane/NestAway-backend/internal/uploads"
)

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the upload store
	uploadStore, err := uploads.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload store")
	}

	// Set up the session store: Redis when configured, in-memory otherwise
	var sessionStore session.Store
	if cfg.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		sessionStore = redisStore
	} else {
		sessionStore = session.NewMemoryStore(cfg.SessionTTL)
	}
	sessions := auth.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL)

	// Set up services
	userService := services.NewUserService(db, uploadStore)
	flatService := services.NewFlatService(db, uploadStore)

	// Set up router
	router := api.NewRouter(cfg.FrontendOrigin, sessions, userService, flatService, uploadStore)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
