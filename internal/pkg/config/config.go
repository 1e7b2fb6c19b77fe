package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreTimeout bounds every persistence call.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT, default=5s"`
	AuditWorkers int           `env:"AUDIT_WORKERS, default=4"`
	SentryDSN    string        `env:"SENTRY_DSN"`

	Session   SessionConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET, required"`
	TTL          time.Duration `env:"SESSION_TTL,    default=336h"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	Backend      string        `env:"SESSION_BACKEND, default=mongo"`
	BcryptCost   int           `env:"BCRYPT_COST,    default=10"`
}

type RateLimitConfig struct {
	Interval time.Duration `env:"RATE_LIMIT_INTERVAL,  default=500ms"`
	Backend  string        `env:"ACCESS_STORE_BACKEND, default=mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=profile_app"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Backends accepted by SESSION_BACKEND and ACCESS_STORE_BACKEND.
const (
	BackendMongo = "mongo"
	BackendRedis = "redis"
)

// Load reads an optional .env file and then configuration from the
// environment using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("config: SESSION_SECRET must not be empty")
	}
	for name, backend := range map[string]string{
		"SESSION_BACKEND":      c.Session.Backend,
		"ACCESS_STORE_BACKEND": c.RateLimit.Backend,
	} {
		if backend != BackendMongo && backend != BackendRedis {
			return fmt.Errorf("config: %s must be %q or %q, got %q", name, BackendMongo, BackendRedis, backend)
		}
	}
	if c.RateLimit.Interval <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_INTERVAL must be positive")
	}
	return nil
}
