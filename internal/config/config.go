package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"memory_party/internal/game"
	"memory_party/internal/logger"
)

type Config struct {
	AppPort     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigins []string

	LogLevel string
	LogJSON  bool

	MatchPolicy game.MatchPolicy

	// WS upgrade limit per client IP
	WSRateLimit  int
	WSRateWindow time.Duration

	// inbound messages per connection
	ClientMsgRate  float64
	ClientMsgBurst int

	RoomIdleTTL    time.Duration
	MigrateOnStart bool
}

// Load reads .env if present and the environment, exiting on invalid values.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppPort:        envString("APP_PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		LogLevel:       envString("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = envBool("LOG_JSON", false); err != nil {
		return nil, err
	}
	if cfg.MatchPolicy, err = game.ParseMatchPolicy(os.Getenv("SEQUENCE_MATCH")); err != nil {
		return nil, fmt.Errorf("SEQUENCE_MATCH: %w", err)
	}
	if cfg.WSRateLimit, err = envInt("WS_RATE_LIMIT", 30); err != nil {
		return nil, err
	}
	if cfg.WSRateWindow, err = envDuration("WS_RATE_WINDOW", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ClientMsgRate, err = envFloat("CLIENT_MSG_RATE", 20); err != nil {
		return nil, err
	}
	if cfg.ClientMsgBurst, err = envInt("CLIENT_MSG_BURST", 40); err != nil {
		return nil, err
	}
	if cfg.RoomIdleTTL, err = envDuration("ROOM_IDLE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart, err = envBool("MIGRATE_ON_START", true); err != nil {
		return nil, err
	}

	if cfg.WSRateLimit <= 0 || cfg.ClientMsgRate <= 0 || cfg.ClientMsgBurst <= 0 {
		return nil, errors.New("rate limits must be positive")
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// envDuration accepts Go durations ("90s") or a plain number of seconds.
func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// splitList parses a comma separated list. ALLOWED_ORIGINS goes through here.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
