/*
Package sqlite provides a SQLite-backed implementation of benefits.Backend.

PURPOSE:
  Persists the employee collection in SQLite. Several collections can live
  in one database file; each is identified by its storage key, the same way
  a browser keeps one value per local-storage key.

KEY TABLES:
  storage_keys: One row per key that has ever been saved (first-run check)
  employees:    Employee rows, partitioned by storage key
  dependents:   Dependent rows, owned by an employee

ORDERING:
  Both employees and dependents carry a position column. Load returns them
  in saved order; the schema never reorders by name.

ATOMIC SAVES:
  Save replaces every row of the key inside one SQL transaction. A failed
  save leaves the previous collection intact.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of database/sql.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the single writer.

USAGE:
  store, err := sqlite.New("./data/benefits.db", "employees")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  roster, err := benefits.OpenRoster(ctx, store, rates, seeder)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - benefits/store.go: Backend interface
  - benefits/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/benefits-engine/benefits"
)

// Store implements benefits.Backend using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	key string
}

// New creates a new SQLite store with the given database path, reading and
// writing the collection saved under key. Use ":memory:" for an in-memory
// database.
func New(dbPath, key string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, key: key}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS storage_keys (
		key TEXT PRIMARY KEY,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		storage_key TEXT NOT NULL REFERENCES storage_keys(key) ON DELETE CASCADE,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (storage_key, id)
	);

	CREATE INDEX IF NOT EXISTS idx_employees_key_position
		ON employees(storage_key, position);

	-- Dependent ids share the key's namespace so they stay unique
	-- across the whole collection.
	CREATE TABLE IF NOT EXISTS dependents (
		storage_key TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (storage_key, id),
		FOREIGN KEY (storage_key, employee_id)
			REFERENCES employees(storage_key, id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_dependents_employee
		ON dependents(storage_key, employee_id, position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// BACKEND (benefits.Backend interface)
// =============================================================================

// Load returns the collection saved under the store's key.
func (s *Store) Load(ctx context.Context) ([]benefits.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM storage_keys WHERE key = ?", s.key,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to check storage key: %w", err)
	}
	if count == 0 {
		return nil, benefits.ErrNotPersisted
	}

	employees, index, err := s.queryEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachDependents(ctx, employees, index); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) queryEmployees(ctx context.Context) ([]benefits.Employee, map[benefits.EmployeeID]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM employees WHERE storage_key = ? ORDER BY position",
		s.key,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []benefits.Employee{}
	index := make(map[benefits.EmployeeID]int)
	for rows.Next() {
		var e benefits.Employee
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.Dependents = []benefits.Dependent{}
		index[e.ID] = len(employees)
		employees = append(employees, e)
	}
	return employees, index, rows.Err()
}

func (s *Store) attachDependents(ctx context.Context, employees []benefits.Employee, index map[benefits.EmployeeID]int) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT employee_id, id, name FROM dependents WHERE storage_key = ? ORDER BY employee_id, position",
		s.key,
	)
	if err != nil {
		return fmt.Errorf("failed to query dependents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			employeeID benefits.EmployeeID
			d          benefits.Dependent
		)
		if err := rows.Scan(&employeeID, &d.ID, &d.Name); err != nil {
			return fmt.Errorf("failed to scan dependent: %w", err)
		}
		i, ok := index[employeeID]
		if !ok {
			continue
		}
		employees[i].Dependents = append(employees[i].Dependents, d)
	}
	return rows.Err()
}

// Save replaces the collection saved under the store's key atomically.
func (s *Store) Save(ctx context.Context, employees []benefits.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, `
		INSERT INTO storage_keys (key, updated_at) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET updated_at = excluded.updated_at
	`, s.key, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to register storage key: %w", err)
	}

	// Dependents first; the cascade would handle it but the explicit
	// delete keeps the statement count predictable.
	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM dependents WHERE storage_key = ?", s.key); err != nil {
		return fmt.Errorf("failed to clear dependents: %w", err)
	}
	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM employees WHERE storage_key = ?", s.key); err != nil {
		return fmt.Errorf("failed to clear employees: %w", err)
	}

	insertEmployee, err := sqlTx.PrepareContext(ctx,
		"INSERT INTO employees (storage_key, id, name, position) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare employee insert: %w", err)
	}
	defer insertEmployee.Close()

	insertDependent, err := sqlTx.PrepareContext(ctx,
		"INSERT INTO dependents (storage_key, employee_id, id, name, position) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare dependent insert: %w", err)
	}
	defer insertDependent.Close()

	for i, e := range employees {
		if _, err := insertEmployee.ExecContext(ctx, s.key, e.ID, e.Name, i); err != nil {
			if isUniqueConstraintError(err) {
				return &benefits.DuplicateIDError{ID: string(e.ID), Kind: "employee"}
			}
			return fmt.Errorf("failed to insert employee %s: %w", e.ID, err)
		}
		for j, d := range e.Dependents {
			if _, err := insertDependent.ExecContext(ctx, s.key, e.ID, d.ID, d.Name, j); err != nil {
				if isUniqueConstraintError(err) {
					return &benefits.DuplicateIDError{ID: string(d.ID), Kind: "dependent"}
				}
				return fmt.Errorf("failed to insert dependent %s: %w", d.ID, err)
			}
		}
	}

	return sqlTx.Commit()
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed"))
}
