package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr     = ":3000"
	defaultMaxConns = 10
	defaultMinConns = 2
	defaultCacheTTL = 10 * time.Minute
)

type Config struct {
	Addr        string
	DatabaseURL string
	MaxConns    int
	MinConns    int
	RedisURL    string
	CacheTTL    time.Duration
	LogLevel    slog.Level
}

// LoadConfig reads the environment and lets flags in args override it.
func LoadConfig(args []string) (Config, error) {
	cacheTTL := defaultCacheTTL
	if v := os.Getenv("CACHE_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		cacheTTL = parsed
	}

	flagSet := flag.NewFlagSet("server", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagAddr := flagSet.String("addr", getEnv("ADDR", defaultAddr), "HTTP listen address")
	flagDB := flagSet.String("database-url", getEnv("DATABASE_URL", ""), "Postgres connection string")
	flagMaxConns := flagSet.Int("db-max-connections", getEnvAsInt("DB_MAX_CONNECTIONS", defaultMaxConns), "maximum pool connections")
	flagMinConns := flagSet.Int("db-min-connections", getEnvAsInt("DB_MIN_CONNECTIONS", defaultMinConns), "minimum pool connections")
	flagRedis := flagSet.String("redis-url", getEnv("REDIS_URL", ""), "Redis URL; empty disables the cache")
	flagCacheTTL := flagSet.Duration("cache-ttl", cacheTTL, "cached workflow lifetime")
	flagLogLevel := flagSet.String("log-level", getEnv("LOG_LEVEL", "info"), "debug|info|warn|error")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*flagLogLevel)); err != nil {
		return Config{}, fmt.Errorf("invalid log level %q", *flagLogLevel)
	}

	config := Config{
		Addr:        strings.TrimSpace(*flagAddr),
		DatabaseURL: strings.TrimSpace(*flagDB),
		MaxConns:    *flagMaxConns,
		MinConns:    *flagMinConns,
		RedisURL:    strings.TrimSpace(*flagRedis),
		CacheTTL:    *flagCacheTTL,
		LogLevel:    level,
	}

	if config.Addr == "" {
		return Config{}, errors.New("addr cannot be empty")
	}
	if config.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}
	if config.MaxConns <= 0 {
		return Config{}, errors.New("db max connections must be positive")
	}
	if config.MinConns < 0 || config.MinConns > config.MaxConns {
		return Config{}, fmt.Errorf("db min connections must be between 0 and %d", config.MaxConns)
	}
	if config.CacheTTL <= 0 {
		return Config{}, errors.New("cache ttl must be positive")
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// getEnvAsInt falls back when the variable is unset or not a number.
func getEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}
