/*
store.go - Persistence interface for the employee collection

PURPOSE:
  Defines the interface between the Roster and whatever holds the data.
  The Roster never knows the storage medium; it loads the whole collection
  on open and saves the whole collection after every mutation, the way a
  browser form writes one value under one local-storage key.

KEY INTERFACE:
  Backend: Load / Save of the full []Employee under one storage key

FIRST RUN:
  Load returns ErrNotPersisted when the key has never been written.
  An empty, previously saved collection is NOT the same thing: it loads as
  an empty slice and is not re-seeded.

IMPLEMENTATIONS:
  - benefits/store/memory.go: In-memory for testing
  - store/sqlite/sqlite.go:   SQLite tables partitioned by storage key
  - store/redis/redis.go:     One JSON value per key in Redis
  - store/jsonfile/jsonfile.go: One JSON file per key in a directory

SEE ALSO:
  - roster.go: The only caller
*/
package benefits

import "context"

// Backend persists the employee collection under a single storage key.
type Backend interface {
	// Load returns the stored collection in its saved order, or
	// ErrNotPersisted if nothing was ever saved under the key.
	Load(ctx context.Context) ([]Employee, error)

	// Save replaces the stored collection. Either the whole collection is
	// written or none of it is.
	Save(ctx context.Context, employees []Employee) error
}

// Closer is implemented by backends holding a connection or file handle.
type Closer interface {
	Close() error
}
