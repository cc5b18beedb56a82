package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	DatabaseURL string
	JWTSecret   []byte
	TokenTTL    time.Duration
	KafkaBroker []string
	LogLevel    string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(v string, name string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("missing required env %s", name)
	}
	return v, nil
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	secret, err := must(os.Getenv("JWT_SECRET"), "JWT_SECRET")
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(getenv("JWT_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("parse JWT_TTL: %w", err)
	}

	cfg := &Config{
		ListenAddr:  getenv("DEVAPI_ADDR", ":5000"),
		DatabaseURL: getenv("DATABASE_URL", "devapi.db"),
		JWTSecret:   []byte(secret),
		TokenTTL:    ttl,
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBroker = append(cfg.KafkaBroker, b)
		}
	}
	return cfg, nil
}
