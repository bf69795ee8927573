package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/petanque-voyages/booking-system/config"
	"github.com/petanque-voyages/booking-system/db"
	"github.com/petanque-voyages/booking-system/handlers"
	"github.com/petanque-voyages/booking-system/i18n"
	"github.com/petanque-voyages/booking-system/middleware"
	"github.com/petanque-voyages/booking-system/repositories"
	api "github.com/petanque-voyages/booking-system/routes"
	"github.com/petanque-voyages/booking-system/services"
	"github.com/petanque-voyages/booking-system/storage"
	"github.com/petanque-voyages/booking-system/tournament"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("default_lang", cfg.DefaultLang))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Image storage is optional: without R2 credentials the site runs with
	// uploads disabled instead of refusing to boot.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2_ACCOUNT_ID not set, image uploads disabled")
	}

	bundle := i18n.NewBundle(cfg.DefaultLang)

	wsHub := tournament.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	programRepo := repositories.NewPostgresProgramRepository(dbConn)
	reservationRepo := repositories.NewPostgresReservationRepository(dbConn)
	reviewRepo := repositories.NewPostgresReviewRepository(dbConn)
	visitorRepo := repositories.NewPostgresVisitorRepository(dbConn)

	authService := services.NewAuthService(cfg.AdminPasswordHash)
	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		teamRepo,
		matchRepo,
		standingRepo,
		wsHub,
		logger,
	)
	teamService := services.NewTeamService(teamRepo, tournamentRepo, uploader)
	programService := services.NewProgramService(programRepo, uploader)
	reservationService := services.NewReservationService(reservationRepo, programRepo)
	reviewService := services.NewReviewService(reviewRepo)
	visitorService := services.NewVisitorService(visitorRepo, logger)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	programHandler := handlers.NewProgramHandler(programService)
	reservationHandler := handlers.NewReservationHandler(reservationService, bundle)
	reviewHandler := handlers.NewReviewHandler(reviewService, bundle)
	visitorHandler := handlers.NewVisitorHandler(visitorService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	teamHandler := handlers.NewTeamHandler(teamService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	tracker := middleware.NewVisitorTracker(visitorService, bundle)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		tracker,
		authHandler,
		programHandler,
		reservationHandler,
		reviewHandler,
		visitorHandler,
		tournamentHandler,
		teamHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
