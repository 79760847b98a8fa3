package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"gigcity/config"
	"gigcity/internal/adapters/auth"
	"gigcity/internal/adapters/email"
	"gigcity/internal/adapters/googleauth"
	"gigcity/internal/adapters/payment"
	httpdelivery "gigcity/internal/delivery/http"
	"gigcity/internal/delivery/http/controllers"
	"gigcity/internal/delivery/http/middleware"
	"gigcity/internal/repository/postgres"
	"gigcity/internal/services"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
	qrImageSize       = 256
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("database unreachable", "err", err)
		os.Exit(1)
	}
	cancel()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	appRepo := postgres.NewArtistApplicationRepository(db)
	orderRepo := postgres.NewPaymentOrderRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)
	issuer, verifier := auth.NewJWTCodec(cfg.JWTSecret)
	googleVerifier := googleauth.NewTokenInfoVerifier(http.DefaultClient, cfg.GoogleClientID)
	gateway := payment.NewGatewayClient(http.DefaultClient, cfg.Gateway.BaseURL, cfg.Gateway.KeyID, cfg.Gateway.Secret)
	sigVerifier := payment.NewHMACVerifier(cfg.Gateway.Secret)
	mailer, err := email.NewMailer(cfg.Mailer, logger)
	if err != nil {
		logger.Error("failed to build mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()
	qrEncoder := email.NewQREncoder(qrImageSize)

	// Services
	dispatcher := services.NewNotificationDispatcher(mailer, renderer, qrEncoder)
	userService := services.NewUserService(userRepo, hasher, issuer, googleVerifier, mailer, renderer, cfg.TokenExpiry, logger)
	eventService := services.NewEventService(eventRepo, logger)
	commentService := services.NewCommentService(eventRepo, commentRepo, userRepo)
	artistService := services.NewArtistService(eventRepo, appRepo, userRepo, logger)
	ticketingService := services.NewTicketingService(eventRepo, ticketRepo, userRepo, orderRepo, sigVerifier, dispatcher, logger)
	admissionService := services.NewAdmissionService(eventRepo, ticketRepo, logger)
	paymentService := services.NewPaymentService(eventRepo, orderRepo, gateway, cfg.Gateway.Currency, logger)

	// HTTP
	authController := controllers.NewAuthController(logger, userService)
	eventController := controllers.NewEventController(logger, eventService, commentService, artistService)
	ticketController := controllers.NewTicketController(logger, ticketingService, admissionService, paymentService)

	mux := httpdelivery.NewRouter(logger, verifier, authController, eventController, ticketController)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
			os.Exit(1)
		}
	}
	logger.Info("server stopped", "port", cfg.Port)
}
