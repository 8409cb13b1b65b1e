package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL bounds the validity of issued bearer tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	// BcryptCost applies to new registrations only; existing hashes carry
	// their own cost and keep verifying after a change.
	BcryptCost int `env:"BCRYPT_COST, default=10"`

	// Login throttle: LoginMaxFailures failed attempts per username within
	// LoginFailureWindow block further attempts until the window expires.
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES,   default=5"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m"`

	// AuditWorkers sizes the background audit dispatcher pool.
	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
