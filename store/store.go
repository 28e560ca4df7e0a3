// Package store opens the configured day.KV backend.
package store

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/window/dayledger/config"
	"github.com/window/dayledger/day"
	memstore "github.com/window/dayledger/day/store"
	"github.com/window/dayledger/store/badger"
	"github.com/window/dayledger/store/sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the backend selected by cfg.Driver. The closer must be
// closed on shutdown.
func Open(cfg config.Store, logger *slog.Logger) (day.KV, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memstore.NewMemory(), nopCloser{}, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("create data directory %s: %w", dir, err)
			}
		}
		s, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case config.DriverBadger:
		bc := badger.DefaultConfig()
		bc.Path = cfg.Path
		bc.Logger = logger
		s, err := badger.Open(bc)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// OpenRepository opens the backend and wraps it in a day repository.
func OpenRepository(cfg config.Store, logger *slog.Logger) (*day.DayRepository, io.Closer, error) {
	kv, closer, err := Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return day.NewDayRepository(kv, logger), closer, nil
}
