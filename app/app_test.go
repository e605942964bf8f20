package app_test

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefits-engine/app"
	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/config"
	"github.com/warp/benefits-engine/seed"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		StorageBackend: backend,
		SQLitePath:     filepath.Join(t.TempDir(), "benefits.db"),
		DataDir:        t.TempDir(),
		StorageKey:     "employees",
		Rates:          benefits.DefaultRates(),
		Seed:           seed.Generator{Seed: 3, Count: 10, MaxDependents: 2},
	}
}

func TestOpen_SeedsEachBackendOnce(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	for _, backend := range []string{config.BackendSQLite, config.BackendFile, config.BackendRedis} {
		t.Run(backend, func(t *testing.T) {
			// GIVEN: A fresh backend
			ctx := context.Background()
			cfg := testConfig(t, backend)
			cfg.RedisURL = "redis://" + mr.Addr()
			cfg.StorageKey = "employees-" + backend

			// WHEN: Opening twice
			first, err := app.Open(ctx, cfg, zerolog.Nop())
			require.NoError(t, err)
			want := first.Roster.Employees()
			require.NoError(t, first.Close())

			cfg.Seed.Seed = 99
			second, err := app.Open(ctx, cfg, zerolog.Nop())
			require.NoError(t, err)
			defer second.Close()

			// THEN: The second open loads the first seed
			assert.Len(t, want, 10)
			assert.Equal(t, want, second.Roster.Employees())
		})
	}
}

func TestOpen_Memory(t *testing.T) {
	deps, err := app.Open(context.Background(), testConfig(t, config.BackendMemory), zerolog.Nop())
	require.NoError(t, err)
	defer deps.Close()

	assert.Equal(t, 10, deps.Roster.Len())
	assert.NoError(t, deps.Close())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := app.Open(context.Background(), testConfig(t, "tape"), zerolog.Nop())
	assert.Error(t, err)
}

func TestOpen_InvalidRates(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Rates.PayPeriods = 0

	_, err := app.Open(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, benefits.ErrInvalidRates)
}
