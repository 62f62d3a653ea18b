package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMongo  = "mongo"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port         string        `env:"PORT,                  default=8080"`
	Env          string        `env:"ENV,                   default=development"`
	JWTSecret    string        `env:"JWT_SECRET,            required"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,             default=24h"`
	LogLevel     string        `env:"LOG_LEVEL,             default=info"`
	LogPretty    bool          `env:"LOG_PRETTY,            default=false"`
	RateLimit    int           `env:"RATE_LIMIT_PER_MINUTE, default=60"`
	CookieSecure bool          `env:"COOKIE_SECURE,         default=false"`
	CORSOrigins  []string      `env:"CORS_ORIGINS"`

	StorageDriver string `env:"STORAGE_DRIVER, default=mongo"`

	Mongo  MongoConfig
	SQLite SQLiteConfig
	Redis  RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portfolio"`
}

type SQLiteConfig struct {
	DSN string `env:"SQLITE_DSN, default=file:portfolio.db?_foreign_keys=on"`
}

// RedisConfig is optional: an empty address keeps token revocation in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads an optional .env file, then the environment, using go-envconfig.
// Variables already set in the environment win over the .env file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMongo, StorageSQLite:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMongo, StorageSQLite, c.StorageDriver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
