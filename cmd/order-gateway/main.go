package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orders-bff/internal/api"
	"orders-bff/internal/auth"
	"orders-bff/internal/cache"
	"orders-bff/internal/config"
	"orders-bff/internal/orders"
	"orders-bff/internal/services"
	"orders-bff/internal/session"
	"orders-bff/internal/store"
	"orders-bff/internal/store/mongostore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.NewConfig()
	slog.Info("Starting order gateway", "port", cfg.HTTPPort, "backend", cfg.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.NewClient(cfg.RedisAddr, cfg.RateLimitRequests, cfg.RateLimitWindow)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.Info("Connected to Redis", "addr", cfg.RedisAddr)

	var (
		orderReader   store.OrderReader
		productReader store.ProductReader
	)
	switch cfg.Backend {
	case config.BackendMongo:
		mongoStore, err := mongostore.Connect(ctx, mongostore.Options{
			URI:               cfg.MongoURI,
			Database:          cfg.MongoDatabase,
			OrderCollection:   cfg.OrderCollection,
			ProductCollection: cfg.ProductCollection,
		})
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer mongoStore.Close(context.Background())
		slog.Info("Connected to MongoDB", "database", cfg.MongoDatabase)
		orderReader, productReader = mongoStore, mongoStore
	case config.BackendHTTP:
		serviceClient := services.NewServiceClient(cfg.OrderServiceURL, cfg.ProductServiceURL)
		orderReader, productReader = serviceClient, serviceClient
	default:
		slog.Error("Unknown order backend", "backend", cfg.Backend)
		os.Exit(1)
	}

	fetcher := orders.NewFetcher(
		orderReader,
		store.NewCachedProducts(productReader, redisClient, cfg.ProductCacheTTL),
		orders.WithBatchSize(cfg.LookupBatchSize),
		orders.WithConcurrency(cfg.LookupConcurrency),
	)

	handler := api.NewHandler(fetcher, redisClient, session.ContextProvider{}, cfg.FetchTimeout)
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           api.NewRouter(handler, authMiddleware),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
