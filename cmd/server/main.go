package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "staybook-backend/internal/api/http"
	"staybook-backend/internal/config"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository/postgres"
	"staybook-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Staybook Reservation Engine...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.Sendgrid.APIKey,
		cfg.Sendgrid.FromEmail,
		cfg.Sendgrid.FromName,
	)
	calendarSvc := service.NewCalendarService(store.AvailabilityRepository, store.PropertyRepository)
	policySvc := service.NewPolicyService(store.PolicyRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// The payment reconciler confirms funded bookings through the booking
	// service, which itself issues refunds through the reconciler. The cycle
	// is broken by handing the reconciler a confirm closure wired up after
	// the booking service exists.
	var bookingSvc service.BookingService
	confirmFunded := func(ctx context.Context, bookingID int64) error {
		_, err := bookingSvc.Confirm(ctx, bookingID)
		return err
	}
	paymentSvc := service.NewPaymentService(store.PaymentRepository, store.BookingRepository, confirmFunded, cfg.Booking)
	bookingSvc = service.NewBookingService(
		store.BookingRepository,
		store.PropertyRepository,
		calendarSvc,
		policySvc,
		paymentSvc,
		emailSvc,
		store.NotificationRepository,
		store.ContactRepository,
	)
	reservationSvc := service.NewReservationService(
		store.BookingRepository,
		store.PropertyRepository,
		calendarSvc,
		bookingSvc,
		paymentSvc,
		emailSvc,
		store.NotificationRepository,
		store.ContactRepository,
		cfg.Booking,
	)

	// Set up HTTP server
	apiServer := httpapi.NewServer(reservationSvc, bookingSvc, calendarSvc, policySvc, paymentSvc, noteSvc)
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
