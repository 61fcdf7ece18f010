package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Auth      AuthConfig
	Services  ServicesConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Pipeline  PipelineConfig
	RateLimit RateLimitConfig
	Server    ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// AuthConfig holds the secret used to verify bearer tokens on the read APIs
type AuthConfig struct {
	JWTSecret string
}

// ServicesConfig holds external service API keys and configuration
type ServicesConfig struct {
	OpenAIAPIKey           string
	GoogleAIAPIKey         string
	StripeWebhookSecret    string
	ResendAPIKey           string
	DefaultEmailSender     string
	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioValidateRequests bool
	PublicBaseURL          string
	WebAppURI              string
}

// RedisConfig holds Redis settings. Redis backs the account cache, the
// distributed usage lock and the background job queue.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port for clients that take a single address
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds call event streaming configuration. An empty broker list
// disables publishing.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// PipelineConfig holds the call pipeline tuning knobs
type PipelineConfig struct {
	AIBackend            string // openai | gemini
	OpenAIModel          string
	GeminiModel          string
	TranscriptionModel   string
	DefaultRegion        string // region used to normalize phone numbers without a country code
	HistoryLimit         int
	ContextMaxChars      int
	TranscriptionTimeout time.Duration
	GenerationTimeout    time.Duration
	PersistenceTimeout   time.Duration
	AccountCacheTTL      time.Duration
}

// RateLimitConfig bounds webhook hits per calling number. A zero limit
// disables limiting.
type RateLimitConfig struct {
	CallsPerCaller int
	Window         time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	// Database configuration
	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	// Auth configuration
	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	// Services configuration
	cfg.Services.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Services.GoogleAIAPIKey = os.Getenv("GOOGLE_AI_API_KEY")
	if cfg.Services.OpenAIAPIKey == "" && cfg.Services.GoogleAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY or GOOGLE_AI_API_KEY is not set: %w", ErrEmptyEnvironmentVariable)
	}
	if cfg.Services.TwilioAccountSID, err = requireEnv("TWILIO_ACCOUNT_SID"); err != nil {
		return nil, err
	}
	if cfg.Services.TwilioAuthToken, err = requireEnv("TWILIO_AUTH_TOKEN"); err != nil {
		return nil, err
	}
	if cfg.Services.TwilioValidateRequests, err = parseBool("TWILIO_VALIDATE_SIGNATURE", "true"); err != nil {
		return nil, err
	}
	if cfg.Services.PublicBaseURL, err = requireEnv("PUBLIC_BASE_URL"); err != nil {
		return nil, err
	}
	cfg.Services.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Services.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Services.DefaultEmailSender = getEnvWithDefault("DEFAULT_EMAIL_SENDER_ADDRESS", "assistant@callassist.app")
	cfg.Services.WebAppURI = getEnvWithDefault("WEBAPP_URI", "http://localhost:3000")

	// Redis configuration
	if cfg.Redis.Enabled, err = parseBool("REDIS_ENABLED", "false"); err != nil {
		return nil, err
	}
	cfg.Redis.Host = getEnvWithDefault("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = parseInt("REDIS_PORT", "6379"); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = parseInt("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	// Kafka configuration
	cfg.Kafka.Brokers = os.Getenv("KAFKA_BROKERS")
	cfg.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", "call-events")

	// Pipeline configuration
	cfg.Pipeline.AIBackend = getEnvWithDefault("AI_BACKEND", "openai")
	cfg.Pipeline.OpenAIModel = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
	cfg.Pipeline.GeminiModel = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	cfg.Pipeline.TranscriptionModel = getEnvWithDefault("TRANSCRIPTION_MODEL", "whisper-1")
	cfg.Pipeline.DefaultRegion = getEnvWithDefault("DEFAULT_PHONE_REGION", "US")
	if cfg.Pipeline.HistoryLimit, err = parseInt("CONTEXT_HISTORY_LIMIT", "10"); err != nil {
		return nil, err
	}
	if cfg.Pipeline.ContextMaxChars, err = parseInt("CONTEXT_MAX_CHARS", "2000"); err != nil {
		return nil, err
	}
	if cfg.Pipeline.TranscriptionTimeout, err = parseDuration("TRANSCRIPTION_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.Pipeline.GenerationTimeout, err = parseDuration("GENERATION_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Pipeline.PersistenceTimeout, err = parseDuration("PERSISTENCE_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.Pipeline.AccountCacheTTL, err = parseDuration("ACCOUNT_CACHE_TTL", "5m"); err != nil {
		return nil, err
	}
	if err := cfg.Pipeline.validate(cfg.Services); err != nil {
		return nil, err
	}

	// Rate limit configuration
	if cfg.RateLimit.CallsPerCaller, err = parseInt("RATE_LIMIT_CALLS_PER_CALLER", "10"); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Window, err = parseDuration("RATE_LIMIT_WINDOW", "1m"); err != nil {
		return nil, err
	}

	// Server configuration
	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}
	if cfg.Server.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that the selected backend has credentials
func (p PipelineConfig) validate(services ServicesConfig) error {
	switch p.AIBackend {
	case "openai":
		if services.OpenAIAPIKey == "" {
			return fmt.Errorf("AI_BACKEND=openai requires OPENAI_API_KEY: %w", ErrEmptyEnvironmentVariable)
		}
	case "gemini":
		if services.GoogleAIAPIKey == "" {
			return fmt.Errorf("AI_BACKEND=gemini requires GOOGLE_AI_API_KEY: %w", ErrEmptyEnvironmentVariable)
		}
	default:
		return fmt.Errorf("unsupported AI_BACKEND %q", p.AIBackend)
	}
	if p.HistoryLimit < 0 {
		return fmt.Errorf("CONTEXT_HISTORY_LIMIT must not be negative")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseInt(key, defaultValue string) (int, error) {
	v, err := strconv.Atoi(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}

func parseBool(key, defaultValue string) (bool, error) {
	v, err := strconv.ParseBool(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	v, err := time.ParseDuration(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}
