package main

import (
	"context"

	"mini-shop/internal/config"
	"mini-shop/internal/db"
	"mini-shop/internal/seed"
	"mini-shop/internal/telemetry"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := telemetry.NewLogger(cfg.Production(), "seed")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.String("default_shop_id", seed.DemoShopID))
}
