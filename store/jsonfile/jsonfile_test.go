package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/store/jsonfile"
)

func TestLoad_NoFileYet(t *testing.T) {
	store, err := jsonfile.New(t.TempDir(), "employees")
	require.NoError(t, err)

	_, err = store.Load(context.Background())

	assert.ErrorIs(t, err, benefits.ErrNotPersisted)
}

func TestSaveLoad(t *testing.T) {
	// GIVEN: A store in a nested, not yet existing directory
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	store, err := jsonfile.New(dir, "employees")
	require.NoError(t, err)
	employees := []benefits.Employee{
		{ID: "e1", Name: "Bob", Dependents: []benefits.Dependent{{ID: "d1", Name: "Carl"}}},
		{ID: "e2", Name: "Alice", Dependents: []benefits.Dependent{}},
	}

	// WHEN: Saving then loading through a fresh store
	require.NoError(t, store.Save(ctx, employees))
	reopened, err := jsonfile.New(dir, "employees")
	require.NoError(t, err)
	loaded, err := reopened.Load(ctx)

	// THEN: Same data, one file, no temp files left behind
	require.NoError(t, err)
	assert.Equal(t, employees, loaded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "employees.json", entries[0].Name())
}

func TestSave_EmptyCollectionIsPersisted(t *testing.T) {
	ctx := context.Background()
	store, err := jsonfile.New(t.TempDir(), "employees")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, nil))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "employees.json"), []byte("{oops"), 0o644))
	store, err := jsonfile.New(dir, "employees")
	require.NoError(t, err)

	_, err = store.Load(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, benefits.ErrNotPersisted)
}

func TestNew_RejectsPathLikeKeys(t *testing.T) {
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		_, err := jsonfile.New(t.TempDir(), key)
		assert.Error(t, err, "key %q", key)
	}
}
