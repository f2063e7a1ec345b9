package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pwproductions/storefront-backend/api/routes"
	cartsvc "github.com/pwproductions/storefront-backend/internal/cart"
	"github.com/pwproductions/storefront-backend/internal/gateway"
	"github.com/pwproductions/storefront-backend/internal/tenants"
	"github.com/pwproductions/storefront-backend/pkg/config"
	"github.com/pwproductions/storefront-backend/pkg/logger"
	"github.com/pwproductions/storefront-backend/pkg/metrics"
	"github.com/pwproductions/storefront-backend/pkg/printful"
	"github.com/pwproductions/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	vendorMetrics := metrics.NewVendorMetrics(registry)

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

	directory, err := tenants.Load(cfg.Tenants)
	if err != nil {
		logg.Error(context.Background(), "failed to load client directory", err)
		os.Exit(1)
	}

	printfulClient, err := printful.NewClient(cfg.Printful, logg, vendorMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create printful client", err)
		os.Exit(1)
	}

	gatewayService, err := gateway.NewService(directory, printfulClient, cfg.Catalog, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"default_client": directory.DefaultKey(),
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			gatewayService,
			cartService,
			redisClient,
			redisClient,
			printfulClient,
			httpMetrics,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
