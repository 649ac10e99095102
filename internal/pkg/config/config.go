package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo      MongoConfig
	Redis      RedisConfig
	SMTP       SMTPConfig
	Dispatcher DispatcherConfig
	Jobs       JobsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pagefeed"`
}

type RedisConfig struct {
	Addr         string `env:"REDIS_ADDR,         default=localhost:6379"`
	DB           int    `env:"REDIS_DB,           default=0"`
	StatsChannel string `env:"REDIS_STATS_CHANNEL, default=stats"`
}

type SMTPConfig struct {
	Addr     string `env:"SMTP_ADDR,     default=localhost:1025"`
	From     string `env:"SMTP_FROM,     default=noreply@pagefeed.local"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

type DispatcherConfig struct {
	Workers int `env:"DISPATCH_WORKERS, default=8"`
}

type JobsConfig struct {
	// UnblockSweepSpec is a cron expression for the temporary-block
	// expiry sweep.
	UnblockSweepSpec string `env:"UNBLOCK_SWEEP_SPEC, default=@every 1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
