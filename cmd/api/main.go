package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mini-shop/internal/config"
	"mini-shop/internal/db"
	"mini-shop/internal/httpserver"
	"mini-shop/internal/ratelimit"
	bannerrepo "mini-shop/internal/repository/banner"
	cartrepo "mini-shop/internal/repository/cart"
	categoryrepo "mini-shop/internal/repository/category"
	orderrepo "mini-shop/internal/repository/order"
	productrepo "mini-shop/internal/repository/product"
	shoprepo "mini-shop/internal/repository/shop"
	tokenrepo "mini-shop/internal/repository/token"
	userrepo "mini-shop/internal/repository/user"
	authsvc "mini-shop/internal/service/auth"
	bannersvc "mini-shop/internal/service/banner"
	cartsvc "mini-shop/internal/service/cart"
	categorysvc "mini-shop/internal/service/category"
	ordersvc "mini-shop/internal/service/order"
	productsvc "mini-shop/internal/service/product"
	shopsvc "mini-shop/internal/service/shop"
	usersvc "mini-shop/internal/service/user"
	"mini-shop/internal/telemetry"
	"mini-shop/internal/upload"
	"mini-shop/internal/wechat"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := telemetry.NewLogger(cfg.Production(), "api")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	shutdownTracer, err := telemetry.SetupTracer(ctx, "mini-shop", cfg.OTelExporter, cfg.OTelEndpoint, cfg.Env)
	if err != nil {
		logger.Fatal("init tracer", zap.Error(err))
	}

	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	if cfg.DefaultShopID == "" {
		logger.Warn("DEFAULT_SHOP_ID is empty; catalog, banner and category reads will be empty")
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	wechatClient := wechat.New(wechat.Config{
		AppID:   cfg.WechatAppID,
		Secret:  cfg.WechatSecret,
		BaseURL: cfg.WechatAPIBase,
		Timeout: cfg.WechatTimeout,
	}, logger)

	storage, err := upload.NewStorage(cfg.UploadPath, cfg.UploadBaseURL, cfg.UploadMaxBytes, logger)
	if err != nil {
		logger.Fatal("init upload storage", zap.Error(err))
	}

	deps := httpserver.Deps{
		Auth: authsvc.New(userRepo, tokenRepo, wechatClient, authsvc.Config{
			Secret: cfg.JWTSecret,
			TTL:    cfg.JWTExpiresIn,
		}, logger),
		Catalog:    productsvc.New(productRepo, cfg.DefaultShopID),
		Cart:       cartsvc.New(cartrepo.NewPostgres(dbpool, logger), productRepo),
		Users:      usersvc.New(userRepo),
		Categories: categorysvc.New(categoryrepo.NewPostgres(dbpool), cfg.DefaultShopID),
		Orders:     ordersvc.New(orderrepo.NewPostgres(dbpool, logger), cfg.DefaultShopID, logger),
		Banners:    bannersvc.New(bannerrepo.NewPostgres(dbpool), cfg.DefaultShopID),
		Shops:      shopsvc.New(shoprepo.NewPostgres(dbpool, logger)),
		Files:      storage,
	}

	if cfg.RedisAddr != "" {
		rdb := ratelimit.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()
		deps.Limiter = ratelimit.New(rdb, "api", cfg.RateLimitMax, cfg.RateLimitWindow)
		logger.Info("rate limiting enabled", zap.String("redis", cfg.RedisAddr), zap.Int("max", cfg.RateLimitMax))
	}

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps, httpserver.Options{
		Production:  cfg.Production(),
		CORSOrigins: cfg.CORSOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
	if err := shutdownTracer(ctx); err != nil {
		logger.Warn("tracer shutdown", zap.Error(err))
	}
}
