// Package main is the entry point for the Inkwell blog API server.
// It loads configuration, connects to MongoDB and Redis, wires the
// services, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/router"
	"inkwell/internal/services"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect to MongoDB.
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer database.Disconnect(context.Background(), db)

	if err := database.EnsureIndexes(ctx, db); err != nil {
		slog.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Connect to Redis (session registry).
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	postStore := store.NewPostStore(db)
	auditStore := store.NewAuditStore(db)

	// Services.
	sessions := session.New(redisClient)
	tokens := &services.TokenService{
		Secret: []byte(cfg.JWTSecret),
		Issuer: "inkwell",
		TTL:    cfg.AccessTokenTTL,
	}
	userService := services.NewUserService(userStore, sessions, auditStore, tokens, cfg.MaxFailedAttempts, cfg.LockoutDuration)
	categoryService := services.NewCategoryService(categoryStore)
	tagService := services.NewTagService(tagStore)
	postService := services.NewPostService(postStore, userStore, tagService)

	// Seed the default admin account (no-op if it exists).
	if cfg.SeedEnabled {
		if err := database.Seed(ctx, userStore, cfg.SeedAdminEmail, cfg.SeedAdminPassword, cfg.SeedAdminName); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	r := router.New(tokens, sessions, router.Handlers{
		Auth:       &handlers.Auth{Users: userService},
		Users:      &handlers.Users{Users: userService},
		Categories: &handlers.Categories{Categories: categoryService},
		Tags:       &handlers.Tags{Tags: tagService},
		Posts:      &handlers.Posts{Posts: postService},
		Audit:      &handlers.Audit{Audit: auditStore},
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for an interrupt signal, then shut down gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
