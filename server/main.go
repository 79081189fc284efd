package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/joho/godotenv"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
	"github.com/devHarshShah/swiftboard-frontend-sub001/api"
	"github.com/devHarshShah/swiftboard-frontend-sub001/postgres"
	"github.com/devHarshShah/swiftboard-frontend-sub001/redis"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	config, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel}))
	slog.SetDefault(log)

	if err := run(config, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(config Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, config.DatabaseURL, postgres.PoolOptions{
		MaxConns: int32(config.MaxConns),
		MinConns: int32(config.MinConns),
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	var store workflow.Store = postgres.New(pool)
	if err := store.CreateSchema(ctx); err != nil {
		return err
	}

	if config.RedisURL != "" {
		client, err := redis.Connect(ctx, config.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		store = redis.NewCache(store, client, config.CacheTTL, log)
		log.Info("workflow cache enabled", "ttl", config.CacheTTL)
	}

	app := api.New(store, log, logger.New())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("listening", "addr", config.Addr)
	return app.Listen(config.Addr, fiber.ListenConfig{DisableStartupMessage: true})
}
