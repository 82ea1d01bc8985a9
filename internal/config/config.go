package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration, loaded once at startup.
type Config struct {
	// Stores
	DatabaseURL string
	MongoURL    string
	MongoDB     string
	RedisAddr   string // empty selects the in-memory revocation store

	// HTTP
	HTTPHost string
	HTTPPort string

	// Tokens
	JWTSecret         string
	JWTAlgorithm      string
	AccessTokenExpiry time.Duration

	// Password reset
	PasswordMinLength  int
	ResetCodeLength    int
	ResetCodeTTL       time.Duration
	ResetSweepInterval time.Duration

	// Social login
	SocialTimeout time.Duration

	// Email
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	// Worker pool
	NotifyWorkerPoolSize int
	NotifyTaskQueueSize  int

	// Environment
	Environment string
	LogLevel    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {

	cfg := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		MongoURL:             getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:              getEnv("MONGO_DB", "app"),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		HTTPHost:             getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTAlgorithm:         getEnv("JWT_ALGORITHM", "HS256"),
		PasswordMinLength:    getEnvInt("PASSWORD_MIN_LENGTH", 6),
		ResetCodeLength:      getEnvInt("RESET_CODE_LENGTH", 6),
		SMTPHost:             getEnv("SMTP_HOST", "localhost"),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFrom:            getEnv("EMAIL_FROM", "noreply@example.com"),
		NotifyWorkerPoolSize: getEnvInt("NOTIFY_WORKER_POOL_SIZE", 5),
		NotifyTaskQueueSize:  getEnvInt("NOTIFY_TASK_QUEUE_SIZE", 100),
		Environment:          getEnv("ENVIRONMENT", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	// Parse durations
	tokenExpiryMins := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	cfg.AccessTokenExpiry = time.Duration(tokenExpiryMins) * time.Minute

	resetTTLMins := getEnvInt("RESET_CODE_TTL_MINUTES", 10)
	cfg.ResetCodeTTL = time.Duration(resetTTLMins) * time.Minute

	sweepMins := getEnvInt("RESET_SWEEP_INTERVAL_MINUTES", 5)
	cfg.ResetSweepInterval = time.Duration(sweepMins) * time.Minute

	socialTimeoutSecs := getEnvInt("SOCIAL_TIMEOUT_SECONDS", 10)
	cfg.SocialTimeout = time.Duration(socialTimeoutSecs) * time.Second

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.JWTAlgorithm != "HS256" {
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWTAlgorithm)
	}
	return nil
}

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}
