package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/educart-ph/educart-backend/api/controllers"
	"github.com/educart-ph/educart-backend/api/routes"
	"github.com/educart-ph/educart-backend/internal/analytics"
	"github.com/educart-ph/educart-backend/internal/auth"
	"github.com/educart-ph/educart-backend/internal/categories"
	"github.com/educart-ph/educart-backend/internal/chat"
	"github.com/educart-ph/educart-backend/internal/delivery"
	"github.com/educart-ph/educart-backend/internal/media"
	"github.com/educart-ph/educart-backend/internal/notifications"
	"github.com/educart-ph/educart-backend/internal/payments"
	"github.com/educart-ph/educart-backend/internal/posts"
	"github.com/educart-ph/educart-backend/internal/requests"
	"github.com/educart-ph/educart-backend/internal/schools"
	"github.com/educart-ph/educart-backend/internal/transactions"
	"github.com/educart-ph/educart-backend/internal/users"
	"github.com/educart-ph/educart-backend/internal/wallet"
	"github.com/educart-ph/educart-backend/pkg/auth/session"
	pkgbigquery "github.com/educart-ph/educart-backend/pkg/bigquery"
	"github.com/educart-ph/educart-backend/pkg/config"
	"github.com/educart-ph/educart-backend/pkg/db"
	"github.com/educart-ph/educart-backend/pkg/gcash"
	"github.com/educart-ph/educart-backend/pkg/logger"
	"github.com/educart-ph/educart-backend/pkg/maps"
	"github.com/educart-ph/educart-backend/pkg/metrics"
	"github.com/educart-ph/educart-backend/pkg/migrate"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/redis"
	"github.com/educart-ph/educart-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing cloud storage client", err)
		}
	}()

	bqClient, err := pkgbigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap bigquery", err)
		os.Exit(1)
	}
	defer func() {
		if err := bqClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing bigquery client", err)
		}
	}()

	gcashClient, err := gcash.NewClient(cfg.GCash)
	if err != nil {
		logg.Error(context.Background(), "failed to create gcash client", err)
		os.Exit(1)
	}

	mapsClient, err := maps.NewClient(cfg.Maps.APIKey)
	if err != nil {
		logg.Error(context.Background(), "failed to create routes client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	userRepo := users.NewRepository(dbClient.DB())
	schoolRepo := schools.NewRepository(dbClient.DB())
	transactionRepo := transactions.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SchoolRepo:     schoolRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	postsService, err := posts.NewService(posts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create posts service", err)
		os.Exit(1)
	}

	walletService, err := wallet.NewService(wallet.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	deliveryService, err := delivery.NewService(mapsClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	transactionsService, err := transactions.NewService(transactionRepo, dbClient, outboxService, walletService, chatService, deliveryService)
	if err != nil {
		logg.Error(context.Background(), "failed to create transactions service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(transactionRepo, transactionsService, walletService, gcashClient, redisClient, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	requestsService, err := requests.NewService(requests.NewRepository(dbClient.DB()), userRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create verification service", err)
		os.Exit(1)
	}

	schoolsService, err := schools.NewService(schoolRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create schools service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categories.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(gcsClient, gcsClient.DefaultBucket(), cfg.GCS.UploadURLExpiry, cfg.GCS.MaxUploadMB)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(bqClient, cfg.GCP.ProjectID, cfg.BigQuery.Dataset, cfg.BigQuery.TransactionEventsTable)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	handler := routes.NewRouter(routes.Deps{
		Config:        cfg,
		Logger:        logg,
		Redis:         redisClient,
		Session:       sessionManager,
		HealthDeps:    controllers.HealthDeps(dbClient, redisClient, gcsClient, bqClient),
		HTTPMetrics:   metrics.NewHTTPMetrics(registry),
		Registry:      registry,
		Auth:          authService,
		Posts:         postsService,
		Transactions:  transactionsService,
		Wallet:        walletService,
		Payments:      paymentsService,
		Delivery:      deliveryService,
		Chat:          chatService,
		Notifications: notificationsService,
		Requests:      requestsService,
		Schools:       schoolsService,
		Categories:    categoriesService,
		Media:         mediaService,
		Analytics:     analyticsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown error", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
