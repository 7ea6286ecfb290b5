package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/moviereviews/backend/pkg/config"
	"github.com/moviereviews/backend/pkg/tracing"
)

// Translation engine providers.
const (
	ProviderAWS  = "aws"
	ProviderHTTP = "http"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all configuration for the review service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"REVIEW_HTTP_PORT" envDefault:"8012"`
	RequestTimeout  time.Duration `env:"REVIEW_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"REVIEW_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// DynamoDB
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	DynamoDBEndpoint   string `env:"DYNAMODB_ENDPOINT"`
	ReviewsTable       string `env:"REVIEWS_TABLE" envDefault:"MovieReviews"`
	TranslationsTable  string `env:"TRANSLATIONS_TABLE" envDefault:"ReviewTranslations"`
	CountersTable      string `env:"COUNTERS_TABLE" envDefault:"ReviewCounters"`
	SlowOperationMs    int    `env:"LOG_SLOW_OPERATION_MS" envDefault:"200"`

	// Identity provider. JWT_ISSUER defaults to the user pool's issuer URL
	// when USER_POOL_ID is set; USER_POOL_CLIENT_ID is the required audience.
	UserPoolID       string `env:"USER_POOL_ID"`
	UserPoolClientID string `env:"USER_POOL_CLIENT_ID"`
	JWTSecret        string `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	JWTIssuer        string `env:"JWT_ISSUER"`

	// Translation engine
	TranslateProvider string        `env:"TRANSLATE_PROVIDER" envDefault:"aws"`
	TranslateEndpoint string        `env:"TRANSLATE_ENDPOINT"`
	TranslateTimeout  time.Duration `env:"TRANSLATE_TIMEOUT" envDefault:"10s"`

	// Redis translation hot cache
	RedisEnabled        bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr           string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass           string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
	TranslationCacheTTL int    `env:"TRANSLATION_CACHE_TTL_HOURS" envDefault:"24"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Translation rate limiting (per client IP)
	TranslationRateLimitRPS   float64 `env:"TRANSLATION_RATE_LIMIT_RPS" envDefault:"5"`
	TranslationRateLimitBurst int     `env:"TRANSLATION_RATE_LIMIT_BURST" envDefault:"10"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	Tracing tracing.Config

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load review config: %w", err)
	}
	return finish(cfg)
}

// LoadFrom reads configuration from vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, vars); err != nil {
		return nil, fmt.Errorf("load review config: %w", err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.Tracing.ServiceName = "review-service"
	cfg.Tracing.Environment = cfg.Environment
	if cfg.JWTIssuer == "" && cfg.UserPoolID != "" {
		cfg.JWTIssuer = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.AWSRegion, cfg.UserPoolID)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.AWSRegion == "" {
		return fmt.Errorf("AWS_REGION is required")
	}
	if c.ReviewsTable == "" || c.TranslationsTable == "" || c.CountersTable == "" {
		return fmt.Errorf("REVIEWS_TABLE, TRANSLATIONS_TABLE and COUNTERS_TABLE are required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment != "development" && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed from default value in %s environment", c.Environment)
	}
	switch c.TranslateProvider {
	case ProviderAWS:
	case ProviderHTTP:
		if c.TranslateEndpoint == "" {
			return fmt.Errorf("TRANSLATE_ENDPOINT is required when TRANSLATE_PROVIDER is %q", ProviderHTTP)
		}
	default:
		return fmt.Errorf("unsupported TRANSLATE_PROVIDER %q", c.TranslateProvider)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.TranslationCacheTTL < 1 {
		return fmt.Errorf("TRANSLATION_CACHE_TTL_HOURS must be positive, got %d", c.TranslationCacheTTL)
	}
	if c.TranslationRateLimitRPS <= 0 || c.TranslationRateLimitBurst < 1 {
		return fmt.Errorf("translation rate limit must be positive")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.Tracing.SampleRate)
	}
	return nil
}

// SlowOperationThreshold returns the slow DynamoDB operation threshold.
func (c *Config) SlowOperationThreshold() time.Duration {
	return time.Duration(c.SlowOperationMs) * time.Millisecond
}

// TranslationCacheDuration returns the Redis hot-cache TTL.
func (c *Config) TranslationCacheDuration() time.Duration {
	return time.Duration(c.TranslationCacheTTL) * time.Hour
}
