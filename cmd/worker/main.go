package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	accountsProcessor "callassist-server/internal/accounts/processor"
	"callassist-server/internal/clients/mail"
	redisClient "callassist-server/internal/clients/redis"
	"callassist-server/internal/config"
	"callassist-server/internal/jobs"
	"callassist-server/internal/jobs/workers"
	billingProcessor "callassist-server/internal/money/billing/processor"
	"callassist-server/internal/observability"
	"callassist-server/internal/store"

	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.Redis.Enabled {
		log.Fatal("REDIS_ENABLED must be true to run the background worker")
	}

	// Initialize logger
	logger := observability.NewLogger()
	defer logger.Sync()
	ctx := context.Background()

	logger.Info(ctx, "Starting background worker server...")

	// Initialize store
	dataStore, err := store.New(cfg.Database.ConnectionString(), logger)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer dataStore.Close()

	cache, err := redisClient.NewClient(cfg.Redis, logger)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.Close()

	mailClient, err := mail.NewResendClient(cfg.Services.ResendAPIKey, cfg.Services.DefaultEmailSender, logger)
	if err != nil {
		log.Fatalf("Failed to create mail client: %v", err)
	}

	accounts := accountsProcessor.New(&dataStore, cache, logger, cfg.Pipeline.DefaultRegion, cfg.Pipeline.AccountCacheTTL)
	billing := billingProcessor.New(cfg.Services.StripeWebhookSecret, &dataStore, logger)

	// Initialize workers
	quotaNoticeWorker := workers.NewQuotaNoticeWorker(&accounts, mailClient, cache, cfg.Services.WebAppURI, logger)
	expiryWorker := workers.NewSubscriptionExpiryWorker(&billing, logger)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	// Create Asynq server with queue configuration
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				jobs.QueueHigh: 6,
				jobs.QueueLow:  1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error(ctx, fmt.Sprintf("task %s failed", task.Type()), err)
			}),
			RetryDelayFunc: asynq.DefaultRetryDelayFunc,
			Logger:         &asynqLogger{logger: logger},
		},
	)

	// Create task handler (mux)
	mux := asynq.NewServeMux()
	mux.HandleFunc(jobs.TypeEmailQuotaExceeded, quotaNoticeWorker.ProcessQuotaNoticeTask)
	mux.HandleFunc(jobs.TypeSubscriptionExpiry, expiryWorker.ProcessSubscriptionExpiryTask)

	// Periodic plan expiry sweep
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Logger: &asynqLogger{logger: logger},
		},
	)
	if _, err := scheduler.Register("@hourly", jobs.NewSubscriptionExpiryTask()); err != nil {
		logger.Error(ctx, "failed to register hourly subscription expiry task", err)
	}

	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Shutdown()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, fmt.Sprintf("Worker server started on Redis: %s", cfg.Redis.Addr()))
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-sigChan
	logger.Info(ctx, "Shutting down worker server...")

	srv.Shutdown()
	logger.Info(ctx, "Worker server stopped")
}

// asynqLogger adapts observability.Logger to asynq.Logger interface
type asynqLogger struct {
	logger *observability.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(context.Background(), fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(context.Background(), fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(context.Background(), fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(context.Background(), fmt.Sprint(args...), nil)
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Fatal(context.Background(), fmt.Sprint(args...), nil)
}
