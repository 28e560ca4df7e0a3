/*
Package config loads runtime configuration for the ledger server and CLI.

SOURCES (later wins):
  1. Defaults
  2. YAML file (optional)
  3. DAYLEDGER_* environment variables

EXAMPLE FILE:
  http:
    address: ":8080"
  store:
    driver: sqlite
    path: ./data/dayledger.db
  goals:
    meals: 3
    snacks: 1
    energy_floor: 20
  rollover:
    enabled: true
    schedule: "0 5 * * *"
  log:
    level: info
*/
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/window/dayledger/goals"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

type Config struct {
	HTTP     HTTP        `yaml:"http"`
	Store    Store       `yaml:"store"`
	Goals    goals.Goals `yaml:"goals"`
	Rollover Rollover    `yaml:"rollover"`
	Log      Log         `yaml:"log"`
}

type HTTP struct {
	Address string `yaml:"address"`
}

type Store struct {
	Driver string `yaml:"driver"`
	// Path is a file for sqlite and a directory for badger.
	Path string `yaml:"path"`
}

// Rollover moves the server's ledger to the new day at the day boundary.
type Rollover struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

type Log struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		HTTP:     HTTP{Address: ":8080"},
		Store:    Store{Driver: DriverSQLite, Path: "./data/dayledger.db"},
		Goals:    goals.Default(),
		Rollover: Rollover{Enabled: true, Schedule: "0 5 * * *"},
		Log:      Log{Level: "info"},
	}
}

// Load reads the YAML file at path (if non-empty) over the defaults and
// then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTP.Address = getEnv("DAYLEDGER_HTTP_ADDRESS", c.HTTP.Address)
	c.Store.Driver = getEnv("DAYLEDGER_STORE_DRIVER", c.Store.Driver)
	c.Store.Path = getEnv("DAYLEDGER_STORE_PATH", c.Store.Path)
	c.Goals.Meals = getIntEnv("DAYLEDGER_GOAL_MEALS", c.Goals.Meals)
	c.Goals.Snacks = getIntEnv("DAYLEDGER_GOAL_SNACKS", c.Goals.Snacks)
	c.Rollover.Enabled = getBoolEnv("DAYLEDGER_ROLLOVER_ENABLED", c.Rollover.Enabled)
	c.Rollover.Schedule = getEnv("DAYLEDGER_ROLLOVER_SCHEDULE", c.Rollover.Schedule)
	c.Log.Level = getEnv("DAYLEDGER_LOG_LEVEL", c.Log.Level)
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite, DriverBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("config: store.path is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Rollover.Enabled && c.Rollover.Schedule == "" {
		return errors.New("config: rollover.schedule is required when rollover is enabled")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return c.Goals.Validate()
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", level)
	}
	return l, nil
}

// NewLogger builds the process logger for the configured level.
func (c Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.Log.Level)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
