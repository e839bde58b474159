// Package main is the entry point for the orderdesk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	corenumerator "orderdesk/internal/core/numerator"
	"orderdesk/internal/domain/order"
	"orderdesk/internal/domain/party"
	"orderdesk/internal/infrastructure/cache"
	v1 "orderdesk/internal/infrastructure/http/v1"
	"orderdesk/internal/infrastructure/http/v1/dto"
	"orderdesk/internal/infrastructure/metrics"
	"orderdesk/internal/infrastructure/numerator"
	"orderdesk/internal/infrastructure/storage/postgres"
	"orderdesk/internal/infrastructure/storage/postgres/master_repo"
	"orderdesk/internal/infrastructure/storage/postgres/order_repo"
	"orderdesk/pkg/config"
	"orderdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.IsDev(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting orderdesk server", "env", cfg.App.Env, "version", cfg.App.Version)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DSN)
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns
	poolCfg.MaxConnLifetime = cfg.DB.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.DB.ConnMaxIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	pool.LogStats(ctx)

	txManager := postgres.NewTxManager(pool)

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(registry)
	catalogMetrics := metrics.NewCatalogMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// --- Catalog ---
	catalogCfg := cache.CatalogConfig{
		Source:   master_repo.NewProductRepo(txManager),
		Interval: cfg.Catalog.RefreshInterval,
		Metrics:  catalogMetrics,
	}
	if cfg.Catalog.Listen {
		catalogCfg.Pool = pool.Pool
	}
	catalogCache := cache.NewCatalogCache(catalogCfg)
	if err := catalogCache.Start(logger.WithLogger(ctx, log.WithComponent("catalog_cache"))); err != nil {
		log.Fatalw("failed to start catalog cache", "error", err)
	}
	defer catalogCache.Stop()

	// --- Services ---
	partyService := party.NewService(master_repo.NewPartyRepo(txManager))

	numOpts := corenumerator.DefaultOptions()
	if cfg.Orders.Cached() {
		numOpts = &corenumerator.Options{
			Strategy:  corenumerator.StrategyCached,
			RangeSize: cfg.Orders.NumberRangeSize,
		}
	}
	orderService := order.NewService(order.ServiceConfig{
		Repo:          order_repo.NewRepo(txManager),
		TxManager:     txManager,
		Numerator:     numerator.New(pool),
		Metrics:       orderMetrics,
		NumberPrefix:  cfg.Orders.NumberPrefix,
		NumberOptions: numOpts,
	})

	// --- Router ---
	if cfg.App.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidators(); err != nil {
		log.Fatalw("failed to register validators", "error", err)
	}

	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		Parties:        partyService,
		Catalog:        catalogCache,
		Orders:         orderService,
		Companies:      cfg.Orders.Companies,
		DB:             txManager,
		CatalogReady:   catalogCache,
		Metrics:        httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Version:        cfg.App.Version,
	})

	var handler http.Handler = router
	if cfg.HTTP.Gzip {
		handler = gzhttp.GzipHandler(router)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
