package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/window/dayledger/config"
	"github.com/window/dayledger/store"
)

func TestOpen_Drivers(t *testing.T) {
	dir := t.TempDir()
	tests := []config.Store{
		{Driver: config.DriverMemory},
		{Driver: config.DriverSQLite, Path: filepath.Join(dir, "nested", "ledger.db")},
		{Driver: config.DriverBadger, Path: filepath.Join(dir, "badger")},
	}
	for _, cfg := range tests {
		t.Run(cfg.Driver, func(t *testing.T) {
			kv, closer, err := store.Open(cfg, nil)
			require.NoError(t, err)
			defer closer.Close()

			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "k", []byte("v")))
			v, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), v)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := store.Open(config.Store{Driver: "etcd"}, nil)
	assert.Error(t, err)
}
