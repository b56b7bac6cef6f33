package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kislikjeka/warungku/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/warungku/internal/infra/redis"
	"github.com/kislikjeka/warungku/internal/ledger"
	"github.com/kislikjeka/warungku/internal/module/report"
	"github.com/kislikjeka/warungku/internal/platform/category"
	"github.com/kislikjeka/warungku/internal/platform/user"
	"github.com/kislikjeka/warungku/internal/platform/wallet"
	"github.com/kislikjeka/warungku/internal/transport/httpapi"
	"github.com/kislikjeka/warungku/internal/transport/httpapi/handler"
	"github.com/kislikjeka/warungku/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/warungku/pkg/config"
	"github.com/kislikjeka/warungku/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Warungku API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
	)
	loc := cfg.Location()

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	db, err := postgres.NewPool(ctx, postgres.Config{
		URL:      cfg.DatabaseURL,
		Timezone: cfg.Timezone,
	}, log)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Report caching is optional; without REDIS_URL reports are computed on every request
	var (
		reportCache report.Cache
		cachePinger handler.Pinger
	)
	if cfg.RedisURL != "" {
		redisClient, err := infraRedis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		rc := infraRedis.NewReportCache(redisClient, cfg.ReportCacheTTL, log)
		reportCache, cachePinger = rc, rc
		log.Info("Redis connection established", "report_cache_ttl", cfg.ReportCacheTTL)
	} else {
		log.Warn("REDIS_URL not configured, report caching disabled")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db.Pool)
	walletRepo := postgres.NewWalletRepository(db.Pool)
	categoryRepo := postgres.NewCategoryRepository(db.Pool)
	ledgerRepo := postgres.NewLedgerRepository(db.Pool)

	// Services
	userSvc := user.NewService(userRepo, log)
	walletSvc := wallet.NewService(walletRepo)
	categorySvc := category.NewService(categoryRepo, log)
	reportSvc := report.NewService(ledgerRepo, reportCache, loc, log)
	ledgerSvc := ledger.NewService(ledgerRepo, walletRepo, categorySvc, log,
		ledger.WithLocation(loc),
		ledger.WithReportInvalidator(reportSvc),
	)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)

	r := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		AuthHandler:        handler.NewAuthHandler(userSvc, jwtSvc, log),
		UserHandler:        handler.NewUserHandler(userSvc, log),
		WalletHandler:      handler.NewWalletHandler(walletSvc, log),
		CategoryHandler:    handler.NewCategoryHandler(categorySvc, log),
		SessionHandler:     handler.NewSessionHandler(ledgerSvc, log),
		TransactionHandler: handler.NewTransactionHandler(ledgerSvc, loc, log),
		ReportHandler:      handler.NewReportHandler(reportSvc, log),
		HealthHandler:      handler.NewHealthHandler(db, cachePinger),
		JWTMiddleware:      middleware.JWTMiddleware(jwtSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
