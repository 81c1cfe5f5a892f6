package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	MessageTTL     time.Duration
	LogLevel       string
}

// Load читает конфигурацию клиента из окружения и .env
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		APIURL:         getEnv("TASKS_API_URL", "http://localhost:5000/api"),
		RequestTimeout: getEnvDuration("CLIENT_REQUEST_TIMEOUT", 10*time.Second),
		MessageTTL:     getEnvDuration("MESSAGE_TTL", 3*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "warn"),
	}

	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid TASKS_API_URL %q: must be an http(s) URL", cfg.APIURL)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("invalid CLIENT_REQUEST_TIMEOUT %v: must be positive", cfg.RequestTimeout)
	}
	if cfg.MessageTTL <= 0 {
		return nil, fmt.Errorf("invalid MESSAGE_TTL %v: must be positive", cfg.MessageTTL)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
