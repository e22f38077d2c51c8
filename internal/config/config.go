package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/EcommerceGo/wishlist/pkg/config"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/database"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/middleware"
)

// Placeholder secrets accepted only in development.
const (
	defaultJWTSecret   = "change-this-to-a-secure-secret"
	defaultShareSecret = "change-this-to-a-secure-share-secret"
	minSecretLength    = 32
)

// Config holds all configuration for the wishlist service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"WISHLIST_HTTP_PORT" envDefault:"8012"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"wishlist"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"wishlist_secret"`
	PostgresDB   string `env:"WISHLIST_DB_NAME" envDefault:"wishlist"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis caches customer to wishlist links.
	LinkCacheEnabled bool          `env:"WISHLIST_LINK_CACHE_ENABLED" envDefault:"true"`
	RedisHost        string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort        int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass        string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	LinkCacheTTL     time.Duration `env:"WISHLIST_LINK_CACHE_TTL" envDefault:"1h"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT access tokens are issued by the user service and share its secret.
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`

	// Share tokens. Rotating the secret invalidates every issued link.
	ShareTokenSecret string `env:"WISHLIST_SHARE_TOKEN_SECRET" envDefault:"change-this-to-a-secure-share-secret"`

	// Private Cache-Control max-age of shared reads in seconds; 0 disables it.
	// A viewer may keep seeing a deleted wishlist for up to this long.
	SharedCacheMaxAge int `env:"WISHLIST_SHARED_CACHE_MAX_AGE" envDefault:"60"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load wishlist config: %w", err)
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
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.LinkCacheEnabled && c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required when the link cache is enabled")
	}
	if c.LinkCacheTTL <= 0 {
		return fmt.Errorf("WISHLIST_LINK_CACHE_TTL must be positive, got %s", c.LinkCacheTTL)
	}
	if c.SharedCacheMaxAge < 0 {
		return fmt.Errorf("WISHLIST_SHARED_CACHE_MAX_AGE must not be negative, got %d", c.SharedCacheMaxAge)
	}

	// In non-development environments, require explicitly set, strong secrets.
	if c.Environment != "development" {
		if err := checkSecret("JWT_SECRET", c.JWTSecret, defaultJWTSecret); err != nil {
			return err
		}
		if err := checkSecret("WISHLIST_SHARE_TOKEN_SECRET", c.ShareTokenSecret, defaultShareSecret); err != nil {
			return err
		}
		if c.ShareTokenSecret == c.JWTSecret {
			return fmt.Errorf("WISHLIST_SHARE_TOKEN_SECRET must differ from JWT_SECRET")
		}
	}
	return nil
}

func checkSecret(name, value, placeholder string) error {
	if value == "" || value == placeholder {
		return fmt.Errorf("%s must be explicitly set via environment variable", name)
	}
	if len(value) < minSecretLength {
		return fmt.Errorf("%s must be at least %d characters long, got %d", name, minSecretLength, len(value))
	}
	return nil
}

// Postgres returns the connection settings for the wishlist database.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the connection settings for the link cache.
func (c *Config) Redis() database.RedisConfig {
	cfg := database.DefaultRedisConfig()
	cfg.Host = c.RedisHost
	cfg.Port = c.RedisPort
	cfg.Password = c.RedisPass
	cfg.DB = c.RedisDB
	return cfg
}

// CORS returns the CORS settings of the HTTP surface.
func (c *Config) CORS() middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = c.CORSAllowedOrigins
	return cors
}

// SlowQueryThreshold returns the duration above which queries are logged.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
