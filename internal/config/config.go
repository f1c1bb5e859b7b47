// Package config loads application settings from defaults, an optional
// TOML file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is read when present in the working directory
const DefaultConfigFile = "verbtrainer.toml"

// State backends
const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config represents the application configuration
type Config struct {
	Vocab VocabConfig `toml:"vocab"`
	State StateConfig `toml:"state"`
	Bot   BotConfig   `toml:"bot"`
}

// VocabConfig says where the deck comes from. The embedded deck is
// always the last fallback.
type VocabConfig struct {
	File string `toml:"file"` // Local verbs.json
	URL  string `toml:"url"`  // Remote verbs.json
}

// StateConfig selects the key-value backend for the study state
type StateConfig struct {
	Backend       string `toml:"backend"`        // sql, redis or memory
	DBDriver      string `toml:"db_driver"`      // sqlite3, postgres or mysql
	DatabaseURL   string `toml:"database_url"`   // DSN; SQLite file path by default
	RedisAddr     string `toml:"redis_addr"`     // host:port
	RedisPassword string `toml:"redis_password"` // optional
	RedisDB       int    `toml:"redis_db"`
}

// BotConfig represents the configuration for the bot
type BotConfig struct {
	Token           string  `toml:"token"`
	EnableScheduler bool    `toml:"enable_scheduler"`
	ReminderHour    int     `toml:"reminder_hour"`     // Hour of day (0-23, UTC) for study reminders
	SendRatePerSec  float64 `toml:"send_rate_per_sec"` // Outbound message rate limit
	SendBurst       int     `toml:"send_burst"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Vocab: VocabConfig{
			File: "verbs.json",
		},
		State: StateConfig{
			Backend:   BackendSQL,
			DBDriver:  "sqlite3",
			RedisAddr: "localhost:6379",
		},
		Bot: BotConfig{
			EnableScheduler: true,
			ReminderHour:    9,
			SendRatePerSec:  25,
			SendBurst:       5,
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// DefaultConfigFile is used if it exists. A missing .env is fine.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables
func (c *Config) applyEnv() error {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("VERBS_FILE", &c.Vocab.File)
	setString("VERBS_URL", &c.Vocab.URL)
	setString("STATE_BACKEND", &c.State.Backend)
	setString("DB_DRIVER", &c.State.DBDriver)
	setString("DATABASE_URL", &c.State.DatabaseURL)
	setString("REDIS_ADDR", &c.State.RedisAddr)
	setString("REDIS_PASSWORD", &c.State.RedisPassword)
	setString("TELEGRAM_BOT_TOKEN", &c.Bot.Token)

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.State.RedisDB = n
	}
	if v := os.Getenv("ENABLE_SCHEDULER"); v != "" {
		c.Bot.EnableScheduler = v != "false"
	}
	if v := os.Getenv("REMINDER_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REMINDER_HOUR %q: %w", v, err)
		}
		c.Bot.ReminderHour = h
	}
	if v := os.Getenv("SEND_RATE_PER_SEC"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SEND_RATE_PER_SEC %q: %w", v, err)
		}
		c.Bot.SendRatePerSec = r
	}
	return nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	switch c.State.Backend {
	case BackendSQL:
		switch c.State.DBDriver {
		case "sqlite3", "postgres", "mysql":
		default:
			return fmt.Errorf("unsupported db driver %q", c.State.DBDriver)
		}
	case BackendRedis:
		if c.State.RedisAddr == "" {
			return fmt.Errorf("redis backend requires an address")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported state backend %q", c.State.Backend)
	}

	if c.Bot.ReminderHour < 0 || c.Bot.ReminderHour > 23 {
		return fmt.Errorf("invalid reminder hour %d", c.Bot.ReminderHour)
	}
	if c.Bot.SendRatePerSec <= 0 {
		return fmt.Errorf("send rate must be positive, got %v", c.Bot.SendRatePerSec)
	}
	if c.Bot.SendBurst < 1 {
		c.Bot.SendBurst = 1
	}
	return nil
}
