package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Поддерживаемые хранилища
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Driver   string // "mongo", "postgres", "redis" или "memory"
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type RedisConfig struct {
	URL    string
	Prefix string
}

type Config struct {
	TasksPort       string
	GRPCPort        string // пустая строка отключает gRPC health
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	DB              DatabaseConfig
	Mongo           MongoConfig
	Redis           RedisConfig
}

// Load читает конфигурацию из окружения; переменные из .env (если файл есть) не перекрывают уже заданные
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		TasksPort:       getEnv("PORT", "5000"),
		GRPCPort:        os.Getenv("GRPC_PORT"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "tasks_user"),
			Password: getEnv("DB_PASSWORD", "tasks_pass"),
			DBName:   getEnv("DB_NAME", "tasks_db"),
			Driver:   getEnv("DB_DRIVER", DriverMongo),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DATABASE", "taskmanager"),
			Collection: getEnv("MONGO_COLLECTION", "tasks"),
		},
		Redis: RedisConfig{
			URL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Prefix: getEnv("REDIS_PREFIX", "taskmanager"),
		},
	}

	if _, ok := os.LookupEnv("GRPC_PORT"); !ok {
		cfg.GRPCPort = "50051"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
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

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) validate() error {
	if err := validatePort("PORT", c.TasksPort); err != nil {
		return err
	}
	if c.GRPCPort != "" {
		if err := validatePort("GRPC_PORT", c.GRPCPort); err != nil {
			return err
		}
	}

	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return fmt.Errorf("mongo driver requires MONGO_URI, MONGO_DATABASE and MONGO_COLLECTION")
		}
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q: must be mongo, postgres, redis or memory", c.DB.Driver)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout %v: must be positive", c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

func validatePort(name, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %q: must be between 1 and 65535", name, value)
	}
	return nil
}

// Addr - адрес HTTP сервера
func (c *Config) Addr() string {
	return ":" + c.TasksPort
}

func (db *DatabaseConfig) DSN() string {
	switch db.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			db.Host, db.Port, db.User, db.Password, db.DBName)
	default:
		return ""
	}
}
