package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string
	AdminJWTSecret string

	// Event sink selection: "log", "redis", "kafka", or a comma-separated combination.
	EventSinks        string
	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool
	RedisEventChannel string
	KafkaBrokers      string
	KafkaEventTopic   string

	// LLM (opening message generation)
	AWSRegion          string
	BedrockModelID     string
	GeneratorMaxTokens int

	// Outreach scheduler defaults; hot-swappable at runtime via the config API.
	SchedulerAutostart      bool
	SchedulerTickInterval   time.Duration
	MaxConcurrentSessions   int
	MaxContactsPerDay       int
	MinHoursBetweenContacts int
	QuietHoursStart         int
	QuietHoursEnd           int
	QuietHoursTimezone      string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		EventSinks:        strings.ToLower(strings.TrimSpace(getEnv("EVENT_SINKS", "log"))),
		RedisAddr:         getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),
		RedisEventChannel: getEnv("REDIS_EVENT_CHANNEL", "outreach:events"),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", ""),
		KafkaEventTopic:   getEnv("KAFKA_EVENT_TOPIC", "outreach-events"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		BedrockModelID:     getEnv("BEDROCK_MODEL_ID", ""),
		GeneratorMaxTokens: getEnvAsInt("GENERATOR_MAX_TOKENS", 300),

		SchedulerAutostart:      getEnvAsBool("SCHEDULER_AUTOSTART", false),
		SchedulerTickInterval:   getEnvAsDuration("SCHEDULER_TICK_INTERVAL", 30*time.Second),
		MaxConcurrentSessions:   getEnvAsInt("MAX_CONCURRENT_SESSIONS", 3),
		MaxContactsPerDay:       getEnvAsInt("MAX_CONTACTS_PER_DAY", 2),
		MinHoursBetweenContacts: getEnvAsInt("MIN_HOURS_BETWEEN_CONTACTS", 4),
		QuietHoursStart:         getEnvAsInt("QUIET_HOURS_START", 22),
		QuietHoursEnd:           getEnvAsInt("QUIET_HOURS_END", 8),
		QuietHoursTimezone:      getEnv("QUIET_HOURS_TZ", "UTC"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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
