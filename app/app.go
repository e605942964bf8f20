// Package app wires configuration into a ready Roster. The server and the
// CLI share it so both see the same storage.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/benefits/store"
	"github.com/warp/benefits-engine/config"
	"github.com/warp/benefits-engine/store/jsonfile"
	"github.com/warp/benefits-engine/store/redis"
	"github.com/warp/benefits-engine/store/sqlite"
)

// Dependencies holds the opened roster and what must be closed with it.
type Dependencies struct {
	Roster  *benefits.Roster
	Backend benefits.Backend
	closers []func() error
}

// Close releases the backend. Safe to call more than once.
func (d *Dependencies) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	d.closers = nil
	return first
}

// OpenBackend returns the backend selected by cfg.StorageBackend and a
// close func.
func OpenBackend(ctx context.Context, cfg *config.Config) (benefits.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.BackendSQLite:
		s, err := sqlite.New(cfg.SQLitePath, cfg.StorageKey)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := redis.Open(ctx, cfg.RedisURL, cfg.StorageKey)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendFile:
		s, err := jsonfile.New(cfg.DataDir, cfg.StorageKey)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.BackendMemory:
		return store.NewMemory(cfg.StorageKey), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Open opens the configured backend and the Roster over it, seeding on
// first run with cfg.Seed.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	backend, closeBackend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.StorageBackend, err)
	}
	deps := &Dependencies{Backend: backend, closers: []func() error{closeBackend}}

	seeded := false
	seeder := func() []benefits.Employee {
		seeded = true
		return cfg.Seed.Employees()
	}

	roster, err := benefits.OpenRoster(ctx, backend, cfg.Rates, seeder)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Roster = roster

	logger.Info().
		Str("backend", cfg.StorageBackend).
		Str("storage_key", cfg.StorageKey).
		Bool("seeded", seeded).
		Int("employees", roster.Len()).
		Msg("roster opened")
	return deps, nil
}
