package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/window/dayledger/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dayledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 3, cfg.Goals.Meals)
	assert.Equal(t, "0 5 * * *", cfg.Rollover.Schedule)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
store:
  driver: badger
  path: /tmp/ledger
goals:
  snacks: 2
log:
  level: debug
`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, config.DriverBadger, cfg.Store.Driver)
	assert.Equal(t, "/tmp/ledger", cfg.Store.Path)
	assert.Equal(t, 2, cfg.Goals.Snacks)
	assert.Equal(t, 3, cfg.Goals.Meals, "unset keys keep their defaults")
	assert.Equal(t, ":8080", cfg.HTTP.Address)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "http:\n  address: \":9000\"\n")
	t.Setenv("DAYLEDGER_HTTP_ADDRESS", ":9100")
	t.Setenv("DAYLEDGER_STORE_DRIVER", "memory")
	t.Setenv("DAYLEDGER_ROLLOVER_ENABLED", "false")
	t.Setenv("DAYLEDGER_GOAL_MEALS", "not-a-number")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTP.Address)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.False(t, cfg.Rollover.Enabled)
	assert.Equal(t, 3, cfg.Goals.Meals, "unparseable values fall back")
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown driver": "store:\n  driver: postgres\n",
		"missing path":   "store:\n  driver: sqlite\n  path: \"\"\n",
		"bad level":      "log:\n  level: loud\n",
		"negative goal":  "goals:\n  meals: -1\n",
		"malformed yaml": "store: [\n",
		"empty schedule": "rollover:\n  schedule: \"\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	l, err := config.ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	l, err = config.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}
