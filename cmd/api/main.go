package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/queuedesk/queuedesk-backend/api/routes"
	"github.com/queuedesk/queuedesk-backend/internal/applicants"
	"github.com/queuedesk/queuedesk-backend/internal/auth"
	"github.com/queuedesk/queuedesk-backend/internal/queue"
	"github.com/queuedesk/queuedesk-backend/internal/slots"
	"github.com/queuedesk/queuedesk-backend/internal/tokens"
	"github.com/queuedesk/queuedesk-backend/pkg/config"
	"github.com/queuedesk/queuedesk-backend/pkg/db"
	"github.com/queuedesk/queuedesk-backend/pkg/logger"
	"github.com/queuedesk/queuedesk-backend/pkg/metrics"
	"github.com/queuedesk/queuedesk-backend/pkg/migrate"
	"github.com/queuedesk/queuedesk-backend/pkg/redis"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	queueMetrics := metrics.NewQueueMetrics(prometheus.DefaultRegisterer)

	applicantRepo := applicants.NewRepository(dbClient.DB())
	slotRepo := slots.NewRepository(dbClient.DB())
	tokenRepo := tokens.NewRepository(dbClient.DB())
	queueRepo := queue.NewRepository(dbClient.DB())

	applicantsService, err := applicants.NewService(applicants.ServiceParams{
		Repo:           applicantRepo,
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create applicants service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		ApplicantRepo: applicantRepo,
		JWTConfig:     cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	slotsService, err := slots.NewService(slots.ServiceParams{
		Repo:          slotRepo,
		ApplicantRepo: applicantRepo,
		TokenChecker:  tokenRepo,
		Metrics:       queueMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create slots service", err)
		os.Exit(1)
	}

	tokensService, err := tokens.NewService(tokens.ServiceParams{
		Repo:          tokenRepo,
		SelectionRepo: slotRepo,
		ApplicantRepo: applicantRepo,
		TxRunner:      dbClient,
		QueueConfig:   cfg.Queue,
		Metrics:       queueMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tokens service", err)
		os.Exit(1)
	}

	queueService, err := queue.NewService(queue.ServiceParams{
		Repo:          queueRepo,
		ApplicantRepo: applicantRepo,
		QueueConfig:   cfg.Queue,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create queue service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			nil,
			applicantsService,
			authService,
			slotsService,
			tokensService,
			queueService,
		),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
