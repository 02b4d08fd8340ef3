package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/shopmate/pkg/analytics"
	"github.com/example/shopmate/pkg/api"
	"github.com/example/shopmate/pkg/auth"
	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/discovery"
	"github.com/example/shopmate/pkg/events"
	"github.com/example/shopmate/pkg/notifier"
	"github.com/example/shopmate/pkg/repository"
	"github.com/example/shopmate/pkg/settlement"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := buildLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront API",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// Stores
	mongo, err := repository.NewMongo(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongo.Close(ctx)
	}()

	db := mongo.Database()
	orders := repository.NewOrderMongo(db)
	products := repository.NewProductMongo(db)
	users, err := repository.NewUserMongo(db)
	if err != nil {
		logger.Fatal("Failed to prepare user collection", zap.Error(err))
	}
	wishes := repository.NewWishMongo(db)
	settingsStore := repository.NewSettingsMongo(db)

	cache := repository.NewCache(&cfg.Redis)
	defer cache.Close()
	settings := repository.NewCachedSettings(settingsStore, cache, logger)

	// Events (optional)
	var publisher *events.Publisher
	if cfg.NATS.Enabled {
		publisher, err = events.NewPublisher(&cfg.NATS, logger)
		if err != nil {
			logger.Warn("NATS unavailable, order events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
		}
	}

	// Receipt dispatch through the actor system
	system := actor.NewActorSystem()
	mailer := notifier.NewReceiptMailer(notifier.NewBrevoClient(&cfg.Mail), users, &cfg.Mail)
	receipts := notifier.NewActorNotifier(system, mailer, cfg.Settlement.NotifyTimeout, logger)
	defer receipts.Stop()

	// Core services
	ledger := settlement.NewLedger(products, cfg.Settlement.StrictStock, logger)
	var eventSink settlement.EventPublisher
	if publisher != nil {
		eventSink = publisher
	}
	settle := settlement.NewService(orders, ledger, settings, receipts, eventSink, cfg.Settlement, logger)
	aggregator := analytics.NewAggregator(orders, users)

	server := api.NewServer(cfg, logger, api.Deps{
		Tokens:     auth.NewTokens(&cfg.Auth),
		Orders:     orders,
		Products:   products,
		Users:      users,
		Wishes:     wishes,
		Settings:   settings,
		Cache:      cache,
		Settlement: settle,
		Analytics:  aggregator,
		Events:     publisher,
	})

	// Service registration
	registry, err := discovery.NewRegistry(&cfg.Etcd, logger)
	if err != nil {
		logger.Warn("etcd unavailable, running unregistered", zap.Error(err))
	} else {
		defer registry.Close()
		ctx := context.Background()
		if err := registry.Register(ctx, cfg.Server.Name, cfg.Server.Host, cfg.Server.Port); err != nil {
			logger.Warn("Failed to register service", zap.Error(err))
		} else {
			defer func() {
				dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := registry.Deregister(dctx); err != nil {
					logger.Error("Failed to deregister service", zap.Error(err))
				}
			}()
		}
	}

	// Ping dependencies
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}
	pingCancel()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Error("Server error", zap.Error(err))
	}

	logger.Info("Service stopped")
}

func buildLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	if cfg.Encoding != "" {
		zcfg.Encoding = cfg.Encoding
	}
	if len(cfg.OutputPaths) > 0 {
		zcfg.OutputPaths = cfg.OutputPaths
	}
	return zcfg.Build()
}
