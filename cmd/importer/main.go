package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"mini-shop/internal/config"
	"mini-shop/internal/db"
	"mini-shop/internal/importer"
	"mini-shop/internal/repository/category"
	"mini-shop/internal/repository/product"
	"mini-shop/internal/repository/shop"
	"mini-shop/internal/telemetry"

	"go.uber.org/zap"
)

func main() {
	var (
		filePath string
		shopID   string
	)
	flag.StringVar(&filePath, "file", "", "Path to product CSV sheet")
	flag.StringVar(&shopID, "shop", "", "Shop id to import into (defaults to DEFAULT_SHOP_ID)")
	flag.Parse()

	cfg := config.FromEnv()
	if shopID == "" {
		shopID = cfg.DefaultShopID
	}
	if filePath == "" || shopID == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := telemetry.NewLogger(cfg.Production(), "importer")
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

	if _, err := shop.NewPostgres(pool, logger).GetByID(ctx, shopID); err != nil {
		logger.Fatal("resolve shop", zap.String("shop_id", shopID), zap.Error(err))
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, logger), category.NewPostgres(pool), shopID, logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Imported %d products into shop %s in %s\n", count, shopID, time.Since(start).Truncate(time.Millisecond))
}
