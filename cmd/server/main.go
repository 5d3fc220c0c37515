package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shubhamkarande/PantryGo/internal"
	"github.com/shubhamkarande/PantryGo/internal/bootstrap"
	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/handler/api"
	"github.com/shubhamkarande/PantryGo/internal/middleware"
	"github.com/shubhamkarande/PantryGo/internal/notify"
	"github.com/shubhamkarande/PantryGo/internal/payment"
	"github.com/shubhamkarande/PantryGo/internal/postgres"
	"github.com/shubhamkarande/PantryGo/internal/router"
	"github.com/shubhamkarande/PantryGo/internal/service"
	"github.com/shubhamkarande/PantryGo/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, internal.ParseLogLevel(cfg.LogLevel))

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Seed the admin user if configured
	if err := bootstrap.EnsureAdminUser(ctx, store, &bootstrap.AdminConfig{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// Initialize metrics
	httpMetrics := middleware.NewMetrics("pantrygo")
	businessMetrics := telemetry.NewBusinessMetrics("pantrygo")

	// Initialize notifier: NATS when configured, log-only otherwise
	var notifier domain.Notifier
	if cfg.NATSUrl != "" {
		natsNotifier, err := notify.NewNATSNotifier(cfg.NATSUrl, notify.DefaultSubject, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsNotifier.Close()
		notifier = natsNotifier
		logger.Info("NATS notifier initialized", "url", cfg.NATSUrl)
	} else {
		notifier = notify.NewLogNotifier(logger)
		logger.Warn("NATS_URL not set, status notifications will only be logged")
	}

	// Initialize payment provider
	provider, err := payment.NewProvider(payment.Config{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		Currency:  cfg.Payment.Currency,
		Mode:      cfg.Payment.Mode,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize payment provider: %w", err)
	}
	logger.Info("Payment provider initialized", "mode", cfg.Payment.Mode)

	// Initialize services
	authService := service.NewAuthService(store, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, businessMetrics, logger)
	productService := service.NewProductService(store)
	addressService := service.NewAddressService(store)
	orderService := service.NewOrderService(store, notifier, businessMetrics, logger)
	paymentService := service.NewPaymentService(store, provider, notifier, businessMetrics, logger)

	// Create router with the global middleware chain
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		router.Logger(logger),
		middleware.WithUser(authService),
		middleware.WithRequestLogger(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		httpMetrics.Handler().ServeHTTP(w, req)
	})

	apiHandler := api.NewHandler(authService, productService, addressService, orderService, paymentService)
	apiHandler.RegisterRoutes(r)

	// Start the server with graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
