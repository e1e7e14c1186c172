package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/rotmarket/pkg/handlers"
	wshandler "github.com/chris/rotmarket/pkg/handlers/websockets"
	"github.com/chris/rotmarket/pkg/idempotency"
	"github.com/chris/rotmarket/pkg/marketplace"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/payments"
	"github.com/chris/rotmarket/pkg/websockets"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Run serves the HTTP API until SIGINT or SIGTERM.
func Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := Bootstrap(ctx)
	if err != nil {
		return err
	}
	cfg, logger := deps.Config, deps.Logger
	defer func() { _ = logger.Sync() }()

	if err := cfg.ValidateAPI(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	fees, err := cfg.FeeSchedule()
	if err != nil {
		return err
	}

	var idemStore middleware.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := newRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		idemStore = idempotency.NewStore(redisClient, cfg.IdempotencyTTL)
	} else {
		logger.Warn("REDIS_URL not set, Idempotency-Key headers are ignored")
	}

	hub := websockets.NewHub()
	notifier := deps.NewNotifier(hub)
	retry := cfg.RetryPolicy()

	apiHandler := handlers.NewApiHandler(deps.Store, handlers.Services{
		Accounts:  marketplace.NewAccountService(deps.Store),
		Listings:  marketplace.NewListingService(deps.Store),
		Purchases: marketplace.NewPurchaseService(deps.Store, fees, deps.Scheduler, notifier, retry, cfg.HoldingWindow, logger),
		Gifts:     marketplace.NewGiftService(deps.Store, notifier, retry, logger),
		Payments:  payments.NewService(deps.Store, cfg.WebhookSecrets, notifier, logger),
		Settler:   deps.NewSettler(notifier),
	}, logger)

	auth := middleware.NewAuthenticator(cfg.JWTSecret)
	router := handlers.NewRouter(apiHandler, handlers.RouterOptions{
		Auth:            auth,
		SettlementToken: cfg.SettlementToken,
		Idempotency:     idemStore,
		WebSocket:       wshandler.NewHandler(hub, auth, cfg.CORSAllowedOrigins, logger),
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitRPS:    cfg.RateLimitRPS,
		Logger:          logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.Port))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("waiting for pending notices")
	notifier.Wait()

	logger.Info("shutdown complete")
	return nil
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
