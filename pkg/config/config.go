package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// MaxCommitRetries bounds how often a reception batch is re-allocated and
	// re-committed after losing an optimistic concurrency check.
	MaxCommitRetries int

	// ClosureDateField selects which transaction timestamp decides cash
	// closure window membership: "date" or "created_at".
	ClosureDateField string

	// RateLimitPerMinute is the per-client request budget for the API.
	RateLimitPerMinute int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "reception-settlement-app")
	viper.SetDefault("MAX_COMMIT_RETRIES", 3)
	viper.SetDefault("CLOSURE_DATE_FIELD", "date")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.MaxCommitRetries = viper.GetInt("MAX_COMMIT_RETRIES")
	if cfg.MaxCommitRetries < 1 {
		cfg.MaxCommitRetries = 3
		log.Println("Warning: MAX_COMMIT_RETRIES must be at least 1. Defaulting to 3.")
	}

	cfg.ClosureDateField = viper.GetString("CLOSURE_DATE_FIELD")
	if cfg.ClosureDateField != "date" && cfg.ClosureDateField != "created_at" {
		log.Printf("Warning: Invalid value for CLOSURE_DATE_FIELD ('%s'). Defaulting to date.\n", cfg.ClosureDateField)
		cfg.ClosureDateField = "date"
	}

	cfg.RateLimitPerMinute = viper.GetInt("RATE_LIMIT_PER_MINUTE")
	if cfg.RateLimitPerMinute < 1 {
		cfg.RateLimitPerMinute = 120
	}

	return cfg, nil
}
