/*
Package jsonfile persists the employee collection as a JSON document on disk.

PURPOSE:
  The simplest durable backend: one file per storage key inside a data
  directory, e.g. <dir>/employees.json. Useful for local runs and for
  inspecting the data by hand.

ATOMIC SAVES:
  Save writes to a temp file in the same directory and renames it over the
  target, so a crash mid-write never leaves a truncated document.
*/
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/warp/benefits-engine/benefits"
)

// Store implements benefits.Backend on a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a Store for key under dir, creating dir if needed.
func New(dir, key string) (*Store, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(_ context.Context) ([]benefits.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, benefits.ErrNotPersisted
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var employees []benefits.Employee
	if err := json.Unmarshal(data, &employees); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if employees == nil {
		employees = []benefits.Employee{}
	}
	return employees, nil
}

func (s *Store) Save(ctx context.Context, employees []benefits.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if employees == nil {
		employees = []benefits.Employee{}
	}
	data, err := json.MarshalIndent(employees, "", "  ")
	if err != nil {
		return fmt.Errorf("encode employees: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
