package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TASKS_STORAGE", "TASKS_FILE", "DATABASE_DSN", "REDIS_HOST", "REDIS_PORT",
		"REDIS_TASKS_KEY", "APP_HOST", "APP_PORT", "RATE_LIMIT_PER_MINUTE", "SHUTDOWN_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Config{
		Storage:                StorageJSON,
		DataFile:               "tasks.json",
		DatabaseDSN:            "tasks.db",
		RedisAddr:              "127.0.0.1:6379",
		RedisTasksKey:          "tasks",
		AppURL:                 "127.0.0.1:8080",
		RateLimit:              60,
		ShutdownTimeoutSeconds: 20,
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TASKS_STORAGE", "SQLite")
	t.Setenv("DATABASE_DSN", "/var/lib/tasks/tasks.db")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != StorageSQLite || cfg.DatabaseDSN != "/var/lib/tasks/tasks.db" {
		t.Errorf("unexpected storage config: %+v", cfg)
	}
	if cfg.AppURL != "127.0.0.1:9090" || cfg.RedisAddr != "cache:6379" {
		t.Errorf("unexpected addresses: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown storage", key: "TASKS_STORAGE", value: "postgres"},
		{name: "non numeric rate limit", key: "RATE_LIMIT_PER_MINUTE", value: "lots"},
		{name: "zero rate limit", key: "RATE_LIMIT_PER_MINUTE", value: "0"},
		{name: "negative shutdown timeout", key: "SHUTDOWN_TIMEOUT_SECONDS", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected %s=%q to be rejected", tt.key, tt.value)
			}
		})
	}
}
