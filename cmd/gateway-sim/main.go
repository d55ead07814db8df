package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/skylight-sports/storefront/internal/gateway"
	"github.com/skylight-sports/storefront/pkg/config"
	"github.com/skylight-sports/storefront/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway-sim"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway-sim",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	server, err := gateway.NewServer(logg, gateway.NewMetrics())
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway server", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Gateway.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting gateway simulator")

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway simulator stopped unexpectedly", err)
		os.Exit(1)
	}
}
