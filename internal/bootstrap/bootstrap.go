package bootstrap

import (
	"callassist-server/internal/config"
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	"context"
	"fmt"

	accountsHandler "callassist-server/internal/accounts/handler"
	accountsProcessor "callassist-server/internal/accounts/processor"
	aiHandler "callassist-server/internal/ai-capabilities/handler"
	aiProcessor "callassist-server/internal/ai-capabilities/processor"
	authHandler "callassist-server/internal/auth/handler"
	authProcessor "callassist-server/internal/auth/processor"
	"callassist-server/internal/clients/googleai"
	kafkaClient "callassist-server/internal/clients/kafka"
	"callassist-server/internal/clients/openai"
	redisClient "callassist-server/internal/clients/redis"
	"callassist-server/internal/clients/twilio"
	conversationsHandler "callassist-server/internal/conversations/handler"
	conversationsProcessor "callassist-server/internal/conversations/processor"
	"callassist-server/internal/jobs"
	"callassist-server/internal/jobs/scheduler"
	billingHandler "callassist-server/internal/money/billing/handler"
	billingProcessor "callassist-server/internal/money/billing/processor"
	"callassist-server/internal/ratelimit"
	"callassist-server/internal/tiers"
	usageHandler "callassist-server/internal/usage/handler"
	"callassist-server/internal/usage/lock"
	usageProcessor "callassist-server/internal/usage/processor"
	voiceCallHandler "callassist-server/internal/voicecall/handler"
	voiceCallProcessor "callassist-server/internal/voicecall/processor"

	"github.com/hibiken/asynq"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Pipeline
	VoiceCallProcessor *voiceCallProcessor.VoiceCallProcessor

	// Handlers
	AuthHandler          authHandler.Handler
	AccountsHandler      accountsHandler.Handler
	ConversationsHandler conversationsHandler.Handler
	UsageHandler         usageHandler.Handler
	AIHandler            aiHandler.Handler
	VoiceCallHandler     voiceCallHandler.Handler
	BillingHandler       billingHandler.Handler


	// Background work. Scheduler is nil when the asynq worker owns periodic jobs.
	Scheduler *scheduler.Scheduler

	// Clients (for cleanup)
	RedisClient   *redisClient.Client
	KafkaProducer *kafkaClient.Producer
	JobClient     *jobs.Client
	geminiClient  *googleai.Client
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	var err error
	deps.Store, err = store.New(cfg.Database.ConnectionString(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional; without it the account cache is skipped, usage
	// locking stays in process and quota notices are not queued.
	deps.RedisClient, err = redisClient.NewClient(cfg.Redis, logger)
	if err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Accounts
	var accountCache accountsProcessor.AccountCache
	if deps.RedisClient != nil {
		accountCache = deps.RedisClient
	}
	accountsProc := accountsProcessor.New(&deps.Store, accountCache, logger, cfg.Pipeline.DefaultRegion, cfg.Pipeline.AccountCacheTTL)
	deps.AccountsHandler = accountsHandler.New(accountsProc, logger)

	// Conversations
	conversationsProc := conversationsProcessor.New(&deps.Store, logger, cfg.Pipeline.PersistenceTimeout)
	deps.ConversationsHandler = conversationsHandler.New(conversationsProc, logger)

	// Usage and plans
	tierService := tiers.New(&deps.Store, logger)
	var locker lock.Locker = lock.NewLocalLocker()
	var notifier usageProcessor.QuotaNotifier
	if deps.RedisClient != nil {
		locker = lock.NewRedisLocker(deps.RedisClient.GetClient())
		deps.JobClient = jobs.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		notifier = deps.JobClient
	}
	usageProc := usageProcessor.New(&deps.Store, tierService, locker, notifier, logger)
	deps.UsageHandler = usageHandler.New(usageProc, logger)

	// AI backends
	var backends []aiProcessor.Backend
	var openAIClient *openai.Client
	if cfg.Services.OpenAIAPIKey != "" {
		openAIClient, err = openai.NewClient(cfg.Services.OpenAIAPIKey, cfg.Pipeline.OpenAIModel, cfg.Pipeline.TranscriptionModel, logger)
		if err != nil {
			deps.Cleanup()
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		backends = append(backends, openAIClient)
	}
	if cfg.Services.GoogleAIAPIKey != "" {
		deps.geminiClient, err = googleai.NewClient(ctx, cfg.Services.GoogleAIAPIKey, cfg.Pipeline.GeminiModel, logger)
		if err != nil {
			deps.Cleanup()
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		backends = append(backends, deps.geminiClient)
	}
	generator, err := aiProcessor.NewResponseGenerator(logger, cfg.Pipeline.GenerationTimeout, cfg.Pipeline.AIBackend, backends...)
	if err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to create response generator: %w", err)
	}
	assembler := aiProcessor.NewContextAssembler(&conversationsProc, logger, cfg.Pipeline.ContextMaxChars)
	deps.AIHandler = aiHandler.New(accountsProc, assembler, generator, cfg.Pipeline.HistoryLimit, logger)

	// Telephony. Recordings are transcribed with Whisper when OpenAI is configured.
	twilioClient := twilio.NewClient(cfg.Services.TwilioAccountSID, cfg.Services.TwilioAuthToken, logger)
	var transcriber voiceCallProcessor.Transcriber
	if openAIClient != nil {
		transcriber = twilio.NewRecordingTranscriber(twilioClient, openAIClient)
	} else {
		logger.Warn(ctx, "speech to text is not configured, only provider transcripts will be answered")
	}

	var events voiceCallProcessor.EventPublisher
	if brokers := kafkaClient.ParseBrokers(cfg.Kafka.Brokers); len(brokers) > 0 {
		deps.KafkaProducer = kafkaClient.NewProducer(kafkaClient.ProducerConfig{
			Brokers: brokers,
			Topic:   cfg.Kafka.Topic,
		}, logger)
		events = deps.KafkaProducer
	}

	deps.VoiceCallProcessor = voiceCallProcessor.New(
		&accountsProc,
		transcriber,
		&assembler,
		generator,
		&conversationsProc,
		&usageProc,
		events,
		voiceCallProcessor.Options{
			HistoryLimit:         cfg.Pipeline.HistoryLimit,
			TranscriptionTimeout: cfg.Pipeline.TranscriptionTimeout,
			PersistenceTimeout:   cfg.Pipeline.PersistenceTimeout,
		},
		logger,
	)

	var window ratelimit.Window = ratelimit.NewMemoryWindow()
	if deps.RedisClient != nil {
		window = ratelimit.NewRedisWindow(deps.RedisClient.GetClient())
	}
	callerLimiter := ratelimit.NewService(window, cfg.RateLimit.CallsPerCaller, cfg.RateLimit.Window, logger)

	var validator voiceCallHandler.SignatureValidator
	if cfg.Services.TwilioValidateRequests {
		validator = twilioClient
	}
	deps.VoiceCallHandler = voiceCallHandler.New(deps.VoiceCallProcessor, &accountsProc, validator, callerLimiter, cfg.Services.PublicBaseURL, logger)

	// Auth
	authProc := authProcessor.New(cfg.Auth, logger)
	deps.AuthHandler = authHandler.New(authProc, logger)

	// Billing
	billingProc := billingProcessor.New(cfg.Services.StripeWebhookSecret, &deps.Store, logger)
	deps.BillingHandler = billingHandler.New(billingProc, logger)

	// Without Redis there is no asynq worker, so subscription expiry runs here.
	if deps.RedisClient == nil {
		deps.Scheduler = scheduler.New(logger)
		deps.Scheduler.Register(scheduler.NewSubscriptionExpiryJob(&billingProc, 0))
	}

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	ctx := context.Background()
	if d.KafkaProducer != nil {
		if err := d.KafkaProducer.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close kafka producer", err)
		}
	}
	if d.JobClient != nil {
		if err := d.JobClient.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close job client", err)
		}
	}
	if d.geminiClient != nil {
		if err := d.geminiClient.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close gemini client", err)
		}
	}
	if err := d.RedisClient.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close redis client", err)
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close database", err)
	}
}
