package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is built once at startup and injected everywhere; business logic
// never reads the process environment directly.
type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:3000"`

	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Mail    MailConfig
	Storage StorageConfig
}

type AuthConfig struct {
	AccessSecret    string        `env:"JWT_ACCESS_SECRET"`
	RefreshSecret   string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type MailConfig struct {
	Region      string `env:"SES_REGION,   default=us-east-1"`
	FromAddress string `env:"MAIL_FROM"`
	Workers     int    `env:"MAIL_WORKERS, default=4"`
}

type StorageConfig struct {
	Region        string `env:"S3_REGION, default=us-east-1"`
	Bucket        string `env:"S3_BUCKET"`
	BaseEndpoint  string `env:"S3_BASE_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	return &cfg, nil
}

// IsDevelopment reports whether the server runs in local development, which
// relaxes the Secure flag on session cookies.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
