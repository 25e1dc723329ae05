package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhenga8533/hsb-economy-api/internal/client/hypixel"
	"github.com/zhenga8533/hsb-economy-api/internal/config"
	cronrunner "github.com/zhenga8533/hsb-economy-api/internal/cron"
	"github.com/zhenga8533/hsb-economy-api/internal/db"
	"github.com/zhenga8533/hsb-economy-api/internal/delivery"
	"github.com/zhenga8533/hsb-economy-api/internal/engine"
	"github.com/zhenga8533/hsb-economy-api/internal/handler"
	"github.com/zhenga8533/hsb-economy-api/internal/logger"
	"github.com/zhenga8533/hsb-economy-api/internal/repository"
	gormrepository "github.com/zhenga8533/hsb-economy-api/internal/repository/gorm"
	"github.com/zhenga8533/hsb-economy-api/internal/service"
	"github.com/zhenga8533/hsb-economy-api/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("HSB_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	envOnly := false
	if raw := os.Getenv("HSB_ENV_ONLY"); raw != "" {
		envOnly = strings.EqualFold(raw, "true") || raw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var dbConn *db.DB
	var historyRepo repository.HistoryRepository
	if cfg.DB.DSN != "" {
		dbConn, err = db.Open(cfg.DB)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
		historyRepo = gormrepository.New(dbConn.Gorm)
	}

	fileStore, err := store.New(cfg.Store.DataDir, logger)
	if err != nil {
		logger.Fatal("open data dir failed", zap.Error(err))
	}

	eng := engine.New(engine.Config{
		RetentionWindow: cfg.Engine.RetentionWindow,
		PriceIncrement:  cfg.Engine.PriceIncrement,
		ValueCeiling:    cfg.Engine.ValueCeiling,
		TolerancePct:    cfg.Engine.TolerancePct,
		ComboTierCap:    cfg.Engine.ComboTierCap,
	})
	feed := hypixel.New(cfg.Hypixel.BaseURL, cfg.Hypixel.Timeout, cfg.Hypixel.Retries)
	sender := delivery.New(cfg.Delivery.Key, cfg.Delivery.Timeout, logger)

	activeSvc := &service.ActiveAuctionService{
		Engine:       eng,
		Store:        fileStore,
		Feed:         feed,
		History:      historyRepo,
		Logger:       logger,
		MaxPages:     cfg.Hypixel.MaxPages,
		TrackedItems: cfg.History.TrackedItems,
	}
	soldSvc := &service.SoldAuctionService{
		Engine:       eng,
		Store:        fileStore,
		Feed:         feed,
		Delivery:     sender,
		History:      historyRepo,
		Logger:       logger,
		AuctionURL:   cfg.Delivery.AuctionURL,
		TrackedItems: cfg.History.TrackedItems,
	}
	bazaarSvc := &service.BazaarService{
		Feed:      feed,
		Delivery:  sender,
		Logger:    logger,
		BazaarURL: cfg.Delivery.BazaarURL,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	healthHandler := &handler.HealthHandler{}
	if dbConn != nil {
		healthHandler.DB = dbConn.Gorm
	}
	healthHandler.Register(router)
	economyHandler := &handler.EconomyHandler{Key: cfg.Delivery.Key, Logger: logger}
	economyHandler.Register(router)
	historyHandler := &handler.HistoryHandler{Repo: historyRepo, Logger: logger}
	historyHandler.Register(router)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCycles := func(ctx context.Context) {
		if _, err := activeSvc.Run(ctx); err != nil {
			logger.Warn("active sync failed", zap.Error(err))
		}
		if _, err := soldSvc.Run(ctx); err != nil {
			logger.Warn("sold sync failed", zap.Error(err))
		}
		if _, err := bazaarSvc.Run(ctx); err != nil {
			logger.Warn("bazaar sync failed", zap.Error(err))
		}
	}

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if _, err := cronRunner.Add("auction_active", cfg.Cron.ActiveSync, func(ctx context.Context) error {
			_, err := activeSvc.Run(ctx)
			return err
		}); err != nil {
			logger.Warn("cron register active sync failed", zap.Error(err))
		}
		if _, err := cronRunner.Add("auction_sold", cfg.Cron.SoldSync, func(ctx context.Context) error {
			_, err := soldSvc.Run(ctx)
			return err
		}); err != nil {
			logger.Warn("cron register sold sync failed", zap.Error(err))
		}
		if _, err := cronRunner.Add("bazaar", cfg.Cron.BazaarSync, func(ctx context.Context) error {
			_, err := bazaarSvc.Run(ctx)
			return err
		}); err != nil {
			logger.Warn("cron register bazaar sync failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	} else {
		// No scheduler: behave like the one-shot scripts and run each
		// cycle once at boot.
		go runCycles(ctx)
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}
