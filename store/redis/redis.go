// Package redis stores the employee collection as one JSON value per
// storage key in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"

	"github.com/warp/benefits-engine/benefits"
)

// Store implements benefits.Backend on a Redis string key.
type Store struct {
	client *goredis.Client
	key    string
}

// New wraps an existing client. The caller owns the client.
func New(client *goredis.Client, key string) *Store {
	return &Store{client: client, key: key}
}

// Open parses a redis:// URL, pings the server and returns a Store that
// closes the client on Close.
func Open(ctx context.Context, url, key string) (*OwnedStore, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &OwnedStore{Store: New(client, key)}, nil
}

// OwnedStore is a Store that owns its client.
type OwnedStore struct {
	*Store
}

// Close closes the underlying client.
func (s *OwnedStore) Close() error {
	return s.client.Close()
}

// Load reads and decodes the value under the store's key.
func (s *Store) Load(ctx context.Context) ([]benefits.Employee, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, benefits.ErrNotPersisted
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	var employees []benefits.Employee
	if err := json.Unmarshal(data, &employees); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	if employees == nil {
		employees = []benefits.Employee{}
	}
	return employees, nil
}

// Save overwrites the value under the store's key. A single SET is atomic.
func (s *Store) Save(ctx context.Context, employees []benefits.Employee) error {
	if employees == nil {
		employees = []benefits.Employee{}
	}
	data, err := json.Marshal(employees)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
