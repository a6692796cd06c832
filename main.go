package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aliceinword/legal-time-tracker/internal/api"
	"github.com/aliceinword/legal-time-tracker/internal/config"
	"github.com/aliceinword/legal-time-tracker/internal/database"
	"github.com/aliceinword/legal-time-tracker/internal/logger"
	"github.com/aliceinword/legal-time-tracker/internal/mail"
	"github.com/aliceinword/legal-time-tracker/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

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

	// Set up services
	referenceService := services.NewReferenceService(db)
	settingsService := services.NewSettingsService(db)
	userService := services.NewUserService(db, referenceService, settingsService)
	entryService := services.NewEntryService(db, settingsService)

	// The operator always has a known-good admin credential after restart.
	if err := userService.EnsureMasterAccount(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure master account")
	}
	log.Info().Str("db", cfg.DatabasePath).Msg("Master account ready")

	// Set up router
	router := api.NewRouter(userService, entryService, referenceService, settingsService, mail.NewSMTPSender())

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
