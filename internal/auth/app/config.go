package app

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Issuer string `env:"AUTH_ISSUER, default=workshop-auth"`

	// TokenSecret signs session tokens. When empty a random secret is
	// generated at startup, which invalidates open sessions on restart.
	TokenSecret     string        `env:"AUTH_TOKEN_SECRET"`
	SessionLifetime time.Duration `env:"AUTH_SESSION_LIFETIME, default=168h"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE, default=auth.db"`
	PepperFile   string `env:"AUTH_PEPPER_FILE,   default=pepper"`

	// Seed controls first-run population of an empty store.
	SeedOnEmpty     bool   `env:"AUTH_SEED_ON_EMPTY, default=true"`
	SeedAdminSecret string `env:"AUTH_SEED_ADMIN_SECRET, default=changeme1"`

	Env       string `env:"ENV,        default=dev"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogFormat string `env:"LOG_FORMAT, default=json"`
	Port      int    `env:"PORT,       default=8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD, default=10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL, default=1h"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
