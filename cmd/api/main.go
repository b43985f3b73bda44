package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/farm2fork/farm2fork-backend/api/controllers"
	"github.com/farm2fork/farm2fork-backend/api/routes"
	"github.com/farm2fork/farm2fork-backend/internal/applications"
	"github.com/farm2fork/farm2fork-backend/internal/auth"
	"github.com/farm2fork/farm2fork-backend/internal/cart"
	"github.com/farm2fork/farm2fork-backend/internal/catalog"
	"github.com/farm2fork/farm2fork-backend/internal/dashboard"
	"github.com/farm2fork/farm2fork-backend/internal/orders"
	"github.com/farm2fork/farm2fork-backend/internal/products"
	"github.com/farm2fork/farm2fork-backend/internal/reviews"
	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/internal/vendors"
	"github.com/farm2fork/farm2fork-backend/pkg/auth/session"
	"github.com/farm2fork/farm2fork-backend/pkg/config"
	"github.com/farm2fork/farm2fork-backend/pkg/db"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
	"github.com/farm2fork/farm2fork-backend/pkg/mailer"
	"github.com/farm2fork/farm2fork-backend/pkg/metrics"
	"github.com/farm2fork/farm2fork-backend/pkg/migrate"
	"github.com/farm2fork/farm2fork-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	sender := mailer.New(cfg.SMTP)

	conn := dbClient.DB()
	teamRepo := team.NewRepository(conn)
	productsRepo := products.NewRepository(conn)

	teamService, err := team.NewService(teamRepo)
	if err != nil {
		fatal(logg, "failed to create team service", err)
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Repo:           auth.NewRepository(conn),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		fatal(logg, "failed to create auth service", err)
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		fatal(logg, "failed to create catalog service", err)
	}
	cartService, err := cart.NewService(cart.NewRepository(conn), dbClient, productsRepo, teamRepo)
	if err != nil {
		fatal(logg, "failed to create cart service", err)
	}
	ordersService, err := orders.NewService(orders.NewRepository(conn), dbClient, teamService)
	if err != nil {
		fatal(logg, "failed to create orders service", err)
	}
	productsService, err := products.NewService(productsRepo, dbClient, teamService)
	if err != nil {
		fatal(logg, "failed to create products service", err)
	}
	reviewsService, err := reviews.NewService(reviews.NewRepository(conn), teamService, sender, logg)
	if err != nil {
		fatal(logg, "failed to create reviews service", err)
	}
	applicationsService, err := applications.NewService(applications.NewRepository(conn), dbClient, sender, logg)
	if err != nil {
		fatal(logg, "failed to create applications service", err)
	}
	dashboardService, err := dashboard.NewService(dashboard.NewRepository(conn), teamService)
	if err != nil {
		fatal(logg, "failed to create dashboard service", err)
	}
	vendorsService, err := vendors.NewService(vendors.NewRepository(conn), teamService)
	if err != nil {
		fatal(logg, "failed to create vendors service", err)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Registry:    registry,
		HTTPMetrics: httpMetrics,
		HealthChecks: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Redis:        redisClient,
		Sessions:     sessionManager,
		Auth:         authService,
		Catalog:      catalogService,
		Cart:         cartService,
		Orders:       ordersService,
		Products:     productsService,
		Reviews:      reviewsService,
		Team:         teamService,
		Vendors:      vendorsService,
		Applications: applicationsService,
		Dashboard:    dashboardService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
