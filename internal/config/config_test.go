package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"VERBS_FILE", "VERBS_URL", "STATE_BACKEND", "DB_DRIVER", "DATABASE_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "TELEGRAM_BOT_TOKEN",
		"ENABLE_SCHEDULER", "REMINDER_HOUR", "SEND_RATE_PER_SEC",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.State.Backend != BackendSQL || cfg.State.DBDriver != "sqlite3" {
		t.Errorf("unexpected state defaults %+v", cfg.State)
	}
	if cfg.Vocab.File != "verbs.json" {
		t.Errorf("expected default verbs file, got %q", cfg.Vocab.File)
	}
	if !cfg.Bot.EnableScheduler || cfg.Bot.ReminderHour != 9 {
		t.Errorf("unexpected bot defaults %+v", cfg.Bot)
	}
}

func TestLoadTOMLAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "verbtrainer.toml")
	data := `
[vocab]
file = "decks/strong.json"
url = "https://example.com/verbs.json"

[state]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2

[bot]
reminder_hour = 18
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("REMINDER_HOUR", "7")
	t.Setenv("ENABLE_SCHEDULER", "false")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Vocab.File != "decks/strong.json" || cfg.Vocab.URL != "https://example.com/verbs.json" {
		t.Errorf("unexpected vocab config %+v", cfg.Vocab)
	}
	if cfg.State.Backend != BackendRedis || cfg.State.RedisAddr != "cache:6379" || cfg.State.RedisDB != 2 {
		t.Errorf("unexpected state config %+v", cfg.State)
	}
	if cfg.Bot.ReminderHour != 7 {
		t.Errorf("env should override file, got hour %d", cfg.Bot.ReminderHour)
	}
	if cfg.Bot.EnableScheduler {
		t.Error("expected scheduler to be disabled")
	}
	if cfg.Bot.Token != "123:abc" {
		t.Errorf("unexpected token %q", cfg.Bot.Token)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMINDER_HOUR", "noon")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric hour")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"memory backend", func(c *Config) { c.State.Backend = BackendMemory }, true},
		{"postgres", func(c *Config) { c.State.DBDriver = "postgres" }, true},
		{"unknown backend", func(c *Config) { c.State.Backend = "etcd" }, false},
		{"unknown driver", func(c *Config) { c.State.DBDriver = "oracle" }, false},
		{"redis without addr", func(c *Config) { c.State.Backend = BackendRedis; c.State.RedisAddr = "" }, false},
		{"hour too large", func(c *Config) { c.Bot.ReminderHour = 24 }, false},
		{"zero rate", func(c *Config) { c.Bot.SendRatePerSec = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("expected ok=%v, got err=%v", tt.ok, err)
			}
		})
	}
}
