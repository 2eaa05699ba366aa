package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Identity  IdentityConfig
	Crypto    CryptoConfig
	Slack     SlackConfig
	Google    GoogleConfig
	LLM       LLMConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	// AppURL is the dashboard origin used for post-OAuth redirects
	AppURL string `envconfig:"APP_URL" default:"http://localhost:3000"`
	// PublicURL is this API's externally reachable origin, used to build OAuth callback URLs
	PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"l10_platform"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration. An empty host selects the in-memory store.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// IdentityConfig configures verification of identity-provider access tokens
type IdentityConfig struct {
	JWTSecret string `envconfig:"IDENTITY_JWT_SECRET"`
	Issuer    string `envconfig:"IDENTITY_JWT_ISSUER"`
	Audience  string `envconfig:"IDENTITY_JWT_AUDIENCE" default:"authenticated"`
}

// CryptoConfig holds secrets used for integration tokens and OAuth state
type CryptoConfig struct {
	// TokenEncryptionKey is a base64-encoded 32 byte AES key
	TokenEncryptionKey string        `envconfig:"TOKEN_ENCRYPTION_KEY"`
	StateSecret        string        `envconfig:"OAUTH_STATE_SECRET"`
	StateTTL           time.Duration `envconfig:"OAUTH_STATE_TTL" default:"10m"`
}

// SlackConfig holds Slack app credentials
type SlackConfig struct {
	ClientID      string `envconfig:"SLACK_CLIENT_ID"`
	ClientSecret  string `envconfig:"SLACK_CLIENT_SECRET"`
	SigningSecret string `envconfig:"SLACK_SIGNING_SECRET"`
}

// GoogleConfig holds Google OAuth credentials for calendar access
type GoogleConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
}

// LLMConfig configures the briefing summarizer (any OpenAI-compatible endpoint)
type LLMConfig struct {
	APIKey  string `envconfig:"LLM_API_KEY"`
	BaseURL string `envconfig:"LLM_BASE_URL"`
	Model   string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
}

// StorageConfig holds object storage configuration for archived meeting notes
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"l10-notes"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	// PublicURL replaces the internal endpoint in presigned links when set
	PublicURL string `envconfig:"STORAGE_PUBLIC_URL"`
}

// SchedulerConfig controls background briefing pre-generation
type SchedulerConfig struct {
	Enabled      bool          `envconfig:"SCHEDULER_ENABLED" default:"false"`
	BriefingHour int           `envconfig:"SCHEDULER_BRIEFING_HOUR" default:"6"`
	Interval     time.Duration `envconfig:"SCHEDULER_TICK" default:"1m"`
	LLMRate      time.Duration `envconfig:"SCHEDULER_LLM_INTERVAL" default:"2s"`
}

// Load loads configuration from .env (if present) and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Identity.JWTSecret == "" {
		return fmt.Errorf("IDENTITY_JWT_SECRET is required")
	}
	if c.Crypto.TokenEncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Crypto.TokenEncryptionKey)
		if err != nil {
			return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be base64: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("TOKEN_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
		}
	}
	if c.Scheduler.BriefingHour < 0 || c.Scheduler.BriefingHour > 23 {
		return fmt.Errorf("SCHEDULER_BRIEFING_HOUR must be between 0 and 23")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// CallbackURL builds the absolute OAuth callback URL for a provider path segment
func (c *Config) CallbackURL(provider string) string {
	return fmt.Sprintf("%s/api/integrations/%s/callback", c.Server.PublicURL, provider)
}
