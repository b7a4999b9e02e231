package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"patrimonio/internal/amqp"
	"patrimonio/internal/cache"
	"patrimonio/internal/config"
	"patrimonio/internal/core"
	"patrimonio/internal/exchange"
	apphttp "patrimonio/internal/http"
	applog "patrimonio/internal/log"
	"patrimonio/internal/records"
	"patrimonio/internal/records/memory"
	"patrimonio/internal/services"
	"patrimonio/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		source        records.Source
		store         records.Store
		templateStore records.TemplateStore
		mirror        *memory.Mirror
		readyCheck    func(ctx context.Context) error
	)

	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()

		mirror = memory.New()
		source, store, templateStore = repo, repo, repo
		readyCheck = repo.Ping
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		mem := memory.NewStrict()
		mirror = mem
		source, store, templateStore = mem, mem, mem
		logger.Info("Initialized memory backend")
	}

	// AMQP is optional: without it record changes are simply not announced
	// and the export worker stays idle.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	dashCache := cache.NewDashboardCache[services.DashboardPayload](128, 5*time.Minute)
	cacheManager := cache.NewManager()
	cacheManager.Register(dashCache)
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	rates := exchange.NewProviderWithConfig(cfg.ExchangeRateURL, cfg.ExchangeRateTTL)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Source:     source,
		Records:    services.NewRecordService(store, mirror, amqpClient, dashCache),
		Templates:  services.NewTemplateService(templateStore),
		Dashboards: services.NewDashboardService(source, mirror, rates, dashCache, core.Options{}),
		ReadyCheck: readyCheck,
		CacheSize:  dashCache.Size,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting patrimonio server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
