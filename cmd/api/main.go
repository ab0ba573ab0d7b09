package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/darkandwhite/shop-backend/api/routes"
	cartsvc "github.com/darkandwhite/shop-backend/internal/cart"
	"github.com/darkandwhite/shop-backend/internal/catalog"
	gatewaysvc "github.com/darkandwhite/shop-backend/internal/gateway"
	ordersvc "github.com/darkandwhite/shop-backend/internal/orders"
	"github.com/darkandwhite/shop-backend/internal/payments"
	"github.com/darkandwhite/shop-backend/pkg/config"
	"github.com/darkandwhite/shop-backend/pkg/db"
	"github.com/darkandwhite/shop-backend/pkg/logger"
	"github.com/darkandwhite/shop-backend/pkg/metrics"
	"github.com/darkandwhite/shop-backend/pkg/migrate"
	"github.com/darkandwhite/shop-backend/pkg/redis"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cartStore, err := cartsvc.NewRedisStore(redisClient, cfg.Session.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	catalogReader := catalog.NewRepository(dbClient.DB())

	cartService, err := cartsvc.NewService(cartStore, catalogReader)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	gatewayClient, err := gatewaysvc.NewClient(cfg.Gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}

	gatewayAuth, err := gatewaysvc.NewAuthenticator(cfg.Gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway authenticator", err)
		os.Exit(1)
	}

	paymentsRepo := payments.NewRepository(dbClient.DB())
	ordersRepo := ordersvc.NewRepository(dbClient.DB())

	paymentsService, err := payments.NewService(paymentsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(ordersRepo, paymentsRepo, cartService, gatewayClient, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	gatewayMetrics := metrics.NewGatewayMetrics(registry)

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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			cartService,
			ordersService,
			paymentsService,
			gatewayAuth,
			gatewayMetrics,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
