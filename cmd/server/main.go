package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mytheresa/inventory-ledger/app/catalog"
	"github.com/mytheresa/inventory-ledger/app/categories"
	"github.com/mytheresa/inventory-ledger/app/config"
	"github.com/mytheresa/inventory-ledger/app/database"
	"github.com/mytheresa/inventory-ledger/app/events"
	"github.com/mytheresa/inventory-ledger/app/idempotency"
	"github.com/mytheresa/inventory-ledger/app/inventory"
	"github.com/mytheresa/inventory-ledger/app/logging"
	"github.com/mytheresa/inventory-ledger/app/metrics"
	"github.com/mytheresa/inventory-ledger/app/transactions"
	"github.com/mytheresa/inventory-ledger/models"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Warn("no .env file loaded", zap.Error(envErr))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := database.New(ctx, database.Options{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer closeDB()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("connected to postgres")

	var guard idempotency.Guard = idempotency.Nop{}
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		guard = idempotency.NewRedisGuard(rdb, cfg.IdempotencyTTL)
		logger.Info("idempotency keys enabled", zap.String("redis", cfg.RedisAddr))
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.KafkaEnabled() {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("publishing transaction events",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close event publisher", zap.Error(err))
		}
	}()

	m := metrics.New()
	productsRepo := models.NewProductsRepository(db)
	categoriesRepo := models.NewCategoriesRepository(db)
	transactionsRepo := models.NewTransactionsRepository(db, cfg.OverdrawPolicy)
	statsRepo := models.NewStatsRepository(db)

	router := newRouter(handlers{
		catalog:      catalog.NewCatalogHandler(productsRepo, logger),
		categories:   categories.NewCategoryHandler(categoriesRepo, logger),
		transactions: transactions.NewTransactionHandler(transactionsRepo, guard, publisher, m, logger),
		inventory:    inventory.NewInventoryHandler(statsRepo, transactionsRepo, cfg.LowStockThreshold, logger),
	}, m, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("overdraw_policy", string(cfg.OverdrawPolicy)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
