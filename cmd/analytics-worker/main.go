package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/educart-ph/educart-backend/internal/analytics"
	"github.com/educart-ph/educart-backend/internal/analytics/worker"
	"github.com/educart-ph/educart-backend/internal/analytics/writer"
	pkgbigquery "github.com/educart-ph/educart-backend/pkg/bigquery"
	"github.com/educart-ph/educart-backend/pkg/config"
	"github.com/educart-ph/educart-backend/pkg/logger"
	"github.com/educart-ph/educart-backend/pkg/metrics"
	"github.com/educart-ph/educart-backend/pkg/outbox/idempotency"
	"github.com/educart-ph/educart-backend/pkg/pubsub"
	"github.com/educart-ph/educart-backend/pkg/redis"
)

const flushTimeout = 30 * time.Second

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "analytics-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "analytics-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	bqClient, err := pkgbigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	requireResource(ctx, logg, "bigquery client", err)
	defer func() {
		if err := bqClient.Close(); err != nil {
			logg.Error(ctx, "failed to close bigquery client", err)
		}
	}()

	subscription := pubsubClient.AnalyticsSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "analytics subscription", errors.New("subscription not configured"))
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Outbox.IdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	eventWriter, err := writer.New(bqClient, writer.Config{
		TransactionTable: cfg.BigQuery.TransactionEventsTable,
	})
	requireResource(ctx, logg, "bigquery writer", err)

	handler, err := analytics.NewTransactionEventHandler(eventWriter)
	requireResource(ctx, logg, "transaction event handler", err)

	workerStats := metrics.NewWorkerMetrics(prometheus.NewRegistry())

	service, err := worker.NewService(subscription, handler, manager, logg, workerStats)
	requireResource(ctx, logg, "analytics worker service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "analytics-worker",
	})
	logg.Info(runCtx, "analytics worker ready")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "analytics worker failed", err)
		os.Exit(1)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := eventWriter.Flush(flushCtx); err != nil {
		logg.Error(runCtx, "failed to flush buffered analytics rows", err)
	}

	logg.Info(runCtx, "analytics worker shutting down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
