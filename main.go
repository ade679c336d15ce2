package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"okto-simulator/config"
	"okto-simulator/domain"
	httpLayer "okto-simulator/http"
	"okto-simulator/logger"
	"okto-simulator/repository"
	"okto-simulator/service"
)

func main() {
	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatalf("read config: %s", err.Error())
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("build logger: %s", err.Error())
	}
	defer func() { _ = logger.Sync() }()

	cache, closeCache, err := newCache(cfg.Cache, logger)
	if err != nil {
		logger.Fatal("cache setup failed", zap.Error(err))
	}
	defer closeCache()

	scanRepo := repository.NewScanRepositoryMemory()

	valuationService := service.NewValuationService(
		service.DefaultPriceTable(),
		cache,
		logger.Named("valuation"),
		service.ValuationOptions{
			CurrentYear:          cfg.Valuation.CurrentYear,
			UnknownBrandFallback: cfg.Valuation.UnknownBrandFallback,
			CacheTTL:             cfg.Cache.TTL,
		},
	)
	marketService := service.NewMarketScanService(logger.Named("market"))

	valuationSim := service.NewSimulation[domain.ValuationResult](
		"valuation", service.ValuationPhases, cfg.Simulator.ValuationDelay, logger.Named("simulator"))
	marketSim := service.NewSimulation[domain.MarketScanResult](
		"market", service.ScanPhases, cfg.Simulator.ScanDelay, logger.Named("simulator"))
	defer valuationSim.Cancel()
	defer marketSim.Cancel()

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Valuation: httpLayer.NewValuationHandler(valuationService, logger.Named("http")),
		Market:    httpLayer.NewMarketHandler(marketService, scanRepo, logger.Named("http")),
		Simulator: httpLayer.NewSimulatorHandler(
			valuationService, marketService, scanRepo, valuationSim, marketSim, logger.Named("http")),
	}, rateLimiter)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("error starting server", zap.Error(err))
		return
	case <-quit:
		logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// newCache picks Redis when an address is configured and an in-process LRU
// otherwise.
func newCache(cfg config.CacheConfig, logger *zap.Logger) (repository.CacheRepository, func(), error) {
	if cfg.RedisAddr == "" {
		lru, err := repository.NewLRUCache(cfg.LRUSize)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using in-process valuation cache", zap.Int("size", cfg.LRUSize))
		return lru, func() {}, nil
	}

	redis := repository.NewRedisCache(cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redis.Ping(ctx); err != nil {
		_ = redis.Close()
		return nil, nil, err
	}
	logger.Info("using redis valuation cache", zap.String("addr", cfg.RedisAddr))
	return redis, func() { _ = redis.Close() }, nil
}
