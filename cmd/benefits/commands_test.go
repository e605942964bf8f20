package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("STORAGE_KEY", "employees")
	t.Setenv("SEED_EMPLOYEES", "0")
	t.Setenv("EMPLOYEE_COST", "")
	t.Setenv("DEPENDENT_COST", "")
	t.Setenv("PAY_PERIODS", "")
	t.Setenv("DISCOUNT_FACTOR", "")
	t.Setenv("LIST_PAGE_SIZE", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root, c := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	require.NoError(t, c.close())
	return out.String(), err
}

func TestCLI_AddListSummary(t *testing.T) {
	// GIVEN: An empty file-backed roster
	setupEnv(t)

	out, err := run(t, "summary")
	require.NoError(t, err)
	assert.Equal(t, "no data\n", out)

	// WHEN: Adding Alice and Bob (+Carl)
	out, err = run(t, "add", "Alice", "-d", "Aaron")
	require.NoError(t, err)
	assert.Contains(t, out, "$1,350.00/year")

	_, err = run(t, "add", "Bob", "--dependent", "Carl")
	require.NoError(t, err)

	// THEN: Both are listed by name and the summary totals 2850
	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice *")
	assert.Contains(t, out, "$1,500.00")
	assert.Less(t, bytes.Index([]byte(out), []byte("Alice")), bytes.Index([]byte(out), []byte("Bob")))
	assert.Contains(t, out, "page 1 of 1, 2 employees")

	out, err = run(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "$2,850.00")

	out, err = run(t, "list", "--query", "carl")
	require.NoError(t, err)
	assert.NotContains(t, out, "Alice")
}

func TestCLI_LoadScenarioAndCosts(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "load-scenario", "examples")
	require.NoError(t, err)
	assert.Equal(t, "loaded examples: 5 employees\n", out)

	out, err = run(t, "costs", "ex-4")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob Byrne")
	assert.Contains(t, out, "$450.00")
	assert.Contains(t, out, "$1,950.00")
	assert.Contains(t, out, "$75.00")

	out, err = run(t, "remove", "ex-4")
	require.NoError(t, err)
	assert.Equal(t, "removed ex-4\n", out)

	_, err = run(t, "costs", "ex-4")
	assert.Error(t, err)
}

func TestCLI_Errors(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "add", "  ")
	assert.Error(t, err)

	_, err = run(t, "load-scenario", "nope")
	assert.Error(t, err)

	_, err = run(t, "remove")
	assert.Error(t, err, "missing argument")

	t.Setenv("STORAGE_BACKEND", "tape")
	_, err = run(t, "list")
	assert.Error(t, err)
}

func TestCLI_FailingCommandStillClosesStorage(t *testing.T) {
	// GIVEN: A command that fails after storage was opened
	setupEnv(t)
	root, c := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"costs", "missing"})

	// WHEN: Executing and closing the way main does
	err := root.Execute()
	require.Error(t, err)
	require.NotNil(t, c.deps, "pre-run opened storage")

	// THEN: close releases it once, and a second close is a no-op
	assert.NoError(t, c.close())
	assert.Nil(t, c.deps)
	assert.NoError(t, c.close())
}
