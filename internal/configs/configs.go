package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

type Config struct {
	Storage                string
	DataFile               string
	DatabaseDSN            string
	RedisAddr              string
	RedisTasksKey          string
	AppURL                 string
	RateLimit              int
	ShutdownTimeoutSeconds int
}

func Load() (Config, error) {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	rateLimit, err := getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Storage:                strings.ToLower(getEnv("TASKS_STORAGE", StorageJSON)),
		DataFile:               getEnv("TASKS_FILE", "tasks.json"),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tasks.db"),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisTasksKey:          getEnv("REDIS_TASKS_KEY", "tasks"),
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		RateLimit:              rateLimit,
		ShutdownTimeoutSeconds: shutdownTimeout,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate is exported so command-line overrides can be rechecked.
func (cfg Config) Validate() error {
	switch cfg.Storage {
	case StorageJSON:
		if cfg.DataFile == "" {
			return errors.New("TASKS_FILE must not be empty")
		}
	case StorageSQLite:
		if cfg.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN must not be empty")
		}
	case StorageRedis:
		if cfg.RedisTasksKey == "" {
			return errors.New("REDIS_TASKS_KEY must not be empty")
		}
	default:
		return fmt.Errorf("TASKS_STORAGE must be one of json, sqlite, redis (got %q)", cfg.Storage)
	}
	if cfg.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}
