package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/skylight-sports/storefront/internal/store"
	"github.com/skylight-sports/storefront/pkg/config"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
	"github.com/skylight-sports/storefront/pkg/logger"
	"github.com/skylight-sports/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	localStore, err := store.New(redisClient, cfg.Session.HandoffTTL)
	if err != nil {
		logg.Error(ctx, "failed to create local store", err)
		os.Exit(1)
	}

	sessionID, err := localStore.EnsureSession(ctx)
	if err != nil {
		logg.Error(ctx, "failed to establish session", err)
		os.Exit(1)
	}
	ctx = logg.WithSessionID(ctx, sessionID)

	app, err := newApp(cfg, logg, localStore, sessionID)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		os.Exit(1)
	}

	if err := app.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+renderError(err))
		os.Exit(1)
	}
}

// renderError prefers the typed public message; raw chains stay in logs.
func renderError(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		msg := typed.Message()
		if msg == "" {
			msg = pkgerrors.MetadataFor(typed.Code()).PublicMessage
		}
		if details := typed.Details(); details != nil {
			return fmt.Sprintf("%s (%v)", msg, details)
		}
		return msg
	}
	return err.Error()
}
