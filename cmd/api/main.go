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

	"github.com/andresvelez/golmarket-backend/api/routes"
	cartsvc "github.com/andresvelez/golmarket-backend/internal/cart"
	checkoutsvc "github.com/andresvelez/golmarket-backend/internal/checkout"
	"github.com/andresvelez/golmarket-backend/internal/identity"
	internalorders "github.com/andresvelez/golmarket-backend/internal/orders"
	product "github.com/andresvelez/golmarket-backend/internal/products"
	suppliersvc "github.com/andresvelez/golmarket-backend/internal/suppliers"
	"github.com/andresvelez/golmarket-backend/pkg/config"
	"github.com/andresvelez/golmarket-backend/pkg/db"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
	"github.com/andresvelez/golmarket-backend/pkg/metrics"
	"github.com/andresvelez/golmarket-backend/pkg/migrate"
	"github.com/andresvelez/golmarket-backend/pkg/redis"
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

	productRepo := product.NewRepository(dbClient.DB())
	productService, err := product.NewService(productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	guestCarts, err := cartsvc.NewGuestRepository(redisClient, cfg.Cart.GuestTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest cart repository", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(
		cartsvc.NewSelector(cartsvc.NewStoreRepository(dbClient.DB()), guestCarts),
		productRepo,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	pendingQueue, err := checkoutsvc.NewPendingQueue(redisClient, cfg.Checkout.PendingQueueTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create pending order queue", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	var restWriter checkoutsvc.OrderWriter
	if cfg.REST.Enabled() {
		restWriter = checkoutsvc.NewRESTWriter(cfg.REST)
	}
	checkoutService, err := checkoutsvc.NewService(
		cartService,
		checkoutsvc.NewDBWriter(dbClient.DB()),
		restWriter,
		pendingQueue,
		cfg.WhatsApp,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := internalorders.NewService(internalorders.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	supplierService, err := suppliersvc.NewService(suppliersvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Resolver:     identity.NewResolver(cfg.JWT),
			Products:     productService,
			Cart:         cartService,
			Checkout:     checkoutService,
			Orders:       orderService,
			Suppliers:    supplierService,
			PendingQueue: pendingQueue,
			Metrics:      registry,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

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
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
