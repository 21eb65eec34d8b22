package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	GeminiAPIKey      string
	GenerationModelID string
	GenerationTimeout time.Duration
	MaxResponseTokens int
	Temperature       float64

	WorkerCount     int
	QueueDrainBatch int
	QueuePollDelay  time.Duration

	// Sentiment classification thresholds and trend window. Defaults
	// follow the agreed contract: > positive is positive, < negative is
	// negative, everything else neutral.
	SentimentPositiveThreshold float64
	SentimentNegativeThreshold float64
	SentimentTrendWindow       int
	SentimentTrendDelta        float64

	HistoryWindow int

	FollowupInterval       time.Duration
	DefaultMeetingDuration time.Duration
	SchedulerSweepInterval time.Duration

	MessagingProvider string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GenerationModelID: getEnv("GENERATION_MODEL_ID", "gemini-2.5-flash"),
		GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT", 30*time.Second),
		MaxResponseTokens: getEnvAsInt("MAX_RESPONSE_TOKENS", 500),
		Temperature:       getEnvAsFloat("GENERATION_TEMPERATURE", 0.7),

		WorkerCount:     getEnvAsInt("WORKER_COUNT", 2),
		QueueDrainBatch: getEnvAsInt("QUEUE_DRAIN_BATCH", 5),
		QueuePollDelay:  getEnvAsDuration("QUEUE_POLL_DELAY", 250*time.Millisecond),

		SentimentPositiveThreshold: getEnvAsFloat("SENTIMENT_POSITIVE_THRESHOLD", 0.1),
		SentimentNegativeThreshold: getEnvAsFloat("SENTIMENT_NEGATIVE_THRESHOLD", -0.1),
		SentimentTrendWindow:       getEnvAsInt("SENTIMENT_TREND_WINDOW", 5),
		SentimentTrendDelta:        getEnvAsFloat("SENTIMENT_TREND_DELTA", 0.1),

		HistoryWindow: getEnvAsInt("HISTORY_WINDOW", 20),

		FollowupInterval:       getEnvAsDuration("FOLLOWUP_INTERVAL", 24*time.Hour),
		DefaultMeetingDuration: getEnvAsDuration("DEFAULT_MEETING_DURATION", 30*time.Minute),
		SchedulerSweepInterval: getEnvAsDuration("SCHEDULER_SWEEP_INTERVAL", time.Minute),

		MessagingProvider: getEnv("MESSAGING_PROVIDER", "sendgrid"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Sales AI"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
