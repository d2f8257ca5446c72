package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/zarpadomueble-ops/storefront-gateway/api/routes"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/cart"
	checkoutsvc "github.com/zarpadomueble-ops/storefront-gateway/internal/checkout"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/catalog"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/orders"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/session"
	"github.com/zarpadomueble-ops/storefront-gateway/internal/storeconfig"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/config"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/metrics"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/redis"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

const catalogRefreshInterval = 5 * time.Minute

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	quoteMetrics := metrics.NewQuoteMetrics(registry)

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

	storeClient, err := storeapi.NewClient(cfg.Upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build store client", err)
		os.Exit(1)
	}

	settings, err := storeconfig.NewService(storeClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build store config service", err)
		os.Exit(1)
	}
	settings.Refresh(context.Background())

	catalogCache := catalog.NewCache(storeClient, logg)
	if err := catalogCache.Refresh(context.Background()); err != nil {
		logg.Warn(context.Background(), "catalog unavailable at startup, serving fallback products")
	}
	go refreshCatalogLoop(context.Background(), catalogCache, logg)

	cartRepo, err := cart.NewRedisRepository(redisClient, cfg.Session.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart repository", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, catalogCache, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart service", err)
		os.Exit(1)
	}

	machines, err := session.NewMachines(func() (*delivery.Machine, error) {
		current := settings.Settings()
		return delivery.NewMachine(delivery.MachineParams{
			Quoter:                       storeClient,
			Rules:                        current.Rules(),
			Debounce:                     cfg.Delivery.QuoteDebounce,
			InstallationBaseCost:         current.Delivery.InstallationBaseCost,
			UnsupportedPostalCodeMessage: current.Delivery.UnsupportedPostalCodeMessage,
			Logger:                       logg,
			Metrics:                      quoteMetrics,
		})
	}, session.DefaultMachineIdleTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to build machine registry", err)
		os.Exit(1)
	}
	go machines.PruneLoop(context.Background(), 5*time.Minute)

	shippingRepo, err := checkoutsvc.NewRedisShippingRepository(redisClient, cfg.Session.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to build shipping repository", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(cartService, shippingRepo, storeClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(storeClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build orders service", err)
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
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Sessions: session.NewManager(cfg.Session),
			Machines: machines,
			Carts:    cartService,
			Catalog:  catalogCache,
			Checkout: checkoutService,
			Orders:   ordersService,
			Settings: settings,
			Store:    redisClient,
			Registry: registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	}
}

func refreshCatalogLoop(ctx context.Context, cache *catalog.Cache, logg *logger.Logger) {
	ticker := time.NewTicker(catalogRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cache.Refresh(ctx); err != nil {
				logg.Warn(ctx, "catalog refresh failed, keeping previous snapshot")
			}
		}
	}
}
