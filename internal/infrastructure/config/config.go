package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Stats   StatsConfig
	Refresh RefreshConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=habit_tracker"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// StatsConfig holds the derivation windows. These are policy values, not
// structural constants, so they are environment-tunable.
type StatsConfig struct {
	RateWindowDays   int `env:"STATS_RATE_WINDOW_DAYS,   default=30"`
	WeeklyWindowDays int `env:"STATS_WEEKLY_WINDOW_DAYS, default=7"`
	TopHabitsLimit   int `env:"STATS_TOP_HABITS_LIMIT,   default=5"`
}

// RefreshConfig controls the nightly derived-stats refresher.
type RefreshConfig struct {
	Workers int `env:"REFRESH_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
