/*
sqlite_test.go - Tests for the SQLite backend

Tests for:
- First-run detection (ErrNotPersisted)
- Round trip with saved order preserved
- Atomic replace on Save
- Storage key partitioning on a shared file
*/
package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/benefits-engine/benefits"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:", "employees")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEmployees() []benefits.Employee {
	return []benefits.Employee{
		{ID: "e2", Name: "Zed", Dependents: []benefits.Dependent{}},
		{ID: "e1", Name: "Alice", Dependents: []benefits.Dependent{
			{ID: "d2", Name: "Yara"},
			{ID: "d1", Name: "Aaron"},
		}},
	}
}

func TestLoad_NeverSaved(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, benefits.ErrNotPersisted)
}

func TestSaveLoad_PreservesOrder(t *testing.T) {
	// GIVEN: Employees saved out of name order
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Save(ctx, sampleEmployees()))

	// WHEN: Loading
	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	// THEN: Same collection, same order, dependents included
	assert.Equal(t, sampleEmployees(), loaded)
}

func TestSave_EmptyCollectionIsPersisted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, []benefits.Employee{}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSave_ReplacesPreviousCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Save(ctx, sampleEmployees()))

	next := []benefits.Employee{{ID: "e9", Name: "Bob", Dependents: []benefits.Dependent{{ID: "d9", Name: "Carl"}}}}
	require.NoError(t, store.Save(ctx, next))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, loaded)
}

func TestSave_DuplicateIDRollsBack(t *testing.T) {
	// GIVEN: A persisted collection
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Save(ctx, sampleEmployees()))

	// WHEN: Saving a collection with a repeated employee id
	err := store.Save(ctx, []benefits.Employee{
		{ID: "x", Name: "One"},
		{ID: "x", Name: "Two"},
	})

	// THEN: Save fails and the previous collection survives
	assert.ErrorIs(t, err, benefits.ErrDuplicateID)
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEmployees(), loaded)
}

func TestKeysArePartitioned(t *testing.T) {
	// GIVEN: Two stores on one database file under different keys
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "benefits.db")
	store, err := New(path, "employees")
	require.NoError(t, err)
	defer store.Close()
	other, err := New(path, "archive")
	require.NoError(t, err)
	defer other.Close()

	// WHEN: Only one key has been saved
	require.NoError(t, store.Save(ctx, sampleEmployees()))

	// THEN: The other key is still unsaved
	_, err = other.Load(ctx)
	assert.ErrorIs(t, err, benefits.ErrNotPersisted)

	// The same ids may be reused under another key.
	require.NoError(t, other.Save(ctx, sampleEmployees()[:1]))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	archived, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, archived, 1)
}

func TestReopenFileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "benefits.db")

	store, err := New(path, "employees")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleEmployees()))
	require.NoError(t, store.Close())

	reopened, err := New(path, "employees")
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEmployees(), loaded)
}

func TestRosterOverSQLite(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	roster, err := benefits.OpenRoster(ctx, store, benefits.DefaultRates(), func() []benefits.Employee {
		return []benefits.Employee{{Name: "Alice"}, {Name: "Bob", Dependents: []benefits.Dependent{{Name: "Carl"}}}}
	})
	require.NoError(t, err)

	reopened, err := benefits.OpenRoster(ctx, store, benefits.DefaultRates(), nil)
	require.NoError(t, err)

	assert.Equal(t, roster.Employees(), reopened.Employees())
	totals, ok := reopened.Summary()
	require.True(t, ok)
	assert.InDelta(t, 2400, totals.CombinedYearlyTotal, 1e-9)
}
