// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub/internal/database"
	"eventhub/internal/handler"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/internal/token"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	ctx := context.Background()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		slog.Error("database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.CreateSchema(ctx, pool); err != nil {
		slog.Error("schema", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to postgres")

	// ── 2. Optional Redis response cache ──────────────────────────────────
	var rdb *redis.Client
	var invalidator *handler.CacheInvalidator
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("redis ping", "error", err)
			os.Exit(1)
		}
		invalidator = handler.NewCacheInvalidator(rdb)
		slog.Info("response cache enabled", "addr", addr)
	}

	// ── 3. Wire up layers ─────────────────────────────────────────────────
	eventRepo := repository.NewEventRepository(pool)
	enrollRepo := repository.NewEnrollmentRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	eventSvc := service.NewEventService(eventRepo, locationRepo)
	enrollSvc := service.NewEnrollmentService(eventRepo, enrollRepo)
	userSvc := service.NewUserService(userRepo)
	locationSvc := service.NewLocationService(locationRepo)

	tokens := token.NewManager(jwtSecret, 2*time.Hour)

	router := handler.NewRouter(handler.RouterConfig{
		Events:    handler.NewEventHandler(eventSvc, enrollSvc, invalidator),
		Users:     handler.NewUserHandler(userSvc, tokens),
		Locations: handler.NewLocationHandler(locationSvc),
		Tokens:    tokens,
		Cache:     rdb,
		CacheTTL:  30 * time.Second,
		Limiter: handler.NewRateLimiter(handler.LimiterConfig{
			RPS:     10,
			Burst:   20,
			IdleTTL: 10 * time.Minute,
		}),
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server", "error", err)
			os.Exit(1)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
