// Package main is the entry point for the inkpress content server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/handlers"
	"inkpress/internal/notify"
	"inkpress/internal/router"
	"inkpress/internal/store"
)

func main() {
	// Structured logger — outputs text with debug level everywhere; the
	// engine sits behind a gateway that owns log shipping.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Notification delivery: a Redis-backed queue when configured, the
	// structured log otherwise.
	var notifier notify.Notifier
	if addr := cfg.RedisAddr(); addr != "" {
		queue, err := notify.ConnectQueue(addr, cfg.RedisPassword)
		if err != nil {
			slog.Error("failed to connect to notification queue", "error", err)
			os.Exit(1)
		}
		defer queue.Close()
		notifier = queue
		slog.Info("notification queue connected", "addr", addr)
	} else {
		notifier = notify.LogNotifier{}
		slog.Warn("redis not configured — notifications go to the log")
	}

	// Initialize data stores.
	taxonomyStore := store.NewTaxonomyStore(db, cfg.CategoryLimit, cfg.TagLimit)
	postStore := store.NewPostStore(db, taxonomyStore)
	commentStore := store.NewCommentStore(db)
	voteStore := store.NewVoteStore(db)

	// Create handler groups with their dependencies.
	postHandlers := handlers.NewPosts(db, postStore, taxonomyStore)
	taxonomyHandlers := handlers.NewTaxonomies(taxonomyStore)
	commentHandlers := handlers.NewComments(commentStore)
	voteHandlers := handlers.NewVotes(voteStore, postStore, commentStore, notifier, cfg.SiteURL, cfg.AdminEmail)

	// Set up the Chi router with all middleware and routes.
	r := router.New(postHandlers, taxonomyHandlers, commentHandlers, voteHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
