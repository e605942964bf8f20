/*
roster.go - The employee store

PURPOSE:
  The Roster owns the authoritative list of employees. Presentation code
  (HTTP handlers, CLI) issues add / update / remove intents here; the cost
  functions only ever see copies.

PERSISTENCE:
  Every mutation saves the whole collection through the Backend before it
  returns. If the save fails, the in-memory change is rolled back so memory
  and storage never disagree.

FIRST RUN:
  OpenRoster loads the collection. If the backend reports ErrNotPersisted,
  the seeder produces sample data which is saved immediately.

DERIVED STATE:
  Summary() caches the last SummaryTotals. Every mutation sets a dirty
  flag; the next read recomputes from scratch.

IDENTIFIERS:
  Employees and dependents supplied without an id get a fresh UUID. Ids
  must be unique across the whole collection, dependents included.

CONCURRENCY:
  A sync.RWMutex guards the collection so the HTTP server can share one
  Roster across requests. Readers receive deep copies.

SEE ALSO:
  - store.go: Backend interface
  - cost.go, summary.go: Pure calculations over the snapshot
*/
package benefits

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Seeder produces the initial collection for an empty backend.
type Seeder func() []Employee

// Roster is the employee store.
type Roster struct {
	mu        sync.RWMutex
	backend   Backend
	rates     Rates
	employees []Employee

	summary   SummaryTotals
	summaryOK bool
	dirty     bool
}

// OpenRoster loads the collection from backend, seeding it on first run.
// A nil seeder seeds an empty collection.
func OpenRoster(ctx context.Context, backend Backend, rates Rates, seeder Seeder) (*Roster, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	employees, err := backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNotPersisted):
		employees = nil
		if seeder != nil {
			employees = seeder()
		}
		if employees == nil {
			employees = []Employee{}
		}
		for i := range employees {
			employees[i] = assignIDs(employees[i].Clone())
		}
		if err := checkUnique(employees); err != nil {
			return nil, fmt.Errorf("seed data: %w", err)
		}
		if err := backend.Save(ctx, employees); err != nil {
			return nil, fmt.Errorf("failed to persist seed data: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	return &Roster{
		backend:   backend,
		rates:     rates,
		employees: cloneAll(employees),
		dirty:     true,
	}, nil
}

// Rates returns the rates the roster computes with.
func (r *Roster) Rates() Rates {
	return r.rates
}

// =============================================================================
// READS
// =============================================================================

// Employees returns a copy of the collection in stored order.
func (r *Roster) Employees() []Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.employees)
}

// Len returns the number of employees.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.employees)
}

// Get returns the employee with the given id.
func (r *Roster) Get(id EmployeeID) (Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Employee{}, ErrEmployeeNotFound
	}
	return r.employees[i].Clone(), nil
}

// Costs returns the CostBreakdown of one employee.
func (r *Roster) Costs(id EmployeeID) (CostBreakdown, error) {
	e, err := r.Get(id)
	if err != nil {
		return CostBreakdown{}, err
	}
	return r.rates.CalculateCosts(e), nil
}

// Summary returns the roll-up over the whole collection; ok is false when
// the roster is empty. The result is cached until the next mutation.
func (r *Roster) Summary() (SummaryTotals, bool) {
	r.mu.RLock()
	if !r.dirty {
		s, ok := r.summary, r.summaryOK
		r.mu.RUnlock()
		return s, ok
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dirty {
		r.summary, r.summaryOK = r.rates.Summarize(r.employees)
		r.dirty = false
	}
	return r.summary, r.summaryOK
}

// Search filters by name (employee or dependent) and sorts by name.
func (r *Roster) Search(query string) []Employee {
	r.mu.RLock()
	out := Filter(r.employees, query)
	r.mu.RUnlock()

	SortByName(out)
	return out
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add validates e, assigns missing ids and appends it. Returns the stored
// employee.
func (r *Roster) Add(ctx context.Context, e Employee) (Employee, error) {
	if err := ValidateEmployee(e); err != nil {
		return Employee{}, err
	}
	e = assignIDs(e.Clone())

	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(cloneAll(r.employees), e)
	if err := checkUnique(next); err != nil {
		return Employee{}, err
	}
	if err := r.commitLocked(ctx, next); err != nil {
		return Employee{}, err
	}
	return e.Clone(), nil
}

// Update replaces the employee with the same id, keeping its position.
func (r *Roster) Update(ctx context.Context, e Employee) (Employee, error) {
	if err := ValidateEmployee(e); err != nil {
		return Employee{}, err
	}
	e = assignIDs(e.Clone())

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(e.ID)
	if i < 0 {
		return Employee{}, ErrEmployeeNotFound
	}
	next := cloneAll(r.employees)
	next[i] = e
	if err := checkUnique(next); err != nil {
		return Employee{}, err
	}
	if err := r.commitLocked(ctx, next); err != nil {
		return Employee{}, err
	}
	return e.Clone(), nil
}

// Remove deletes the employee with the given id, dependents included.
func (r *Roster) Remove(ctx context.Context, id EmployeeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrEmployeeNotFound
	}
	next := make([]Employee, 0, len(r.employees)-1)
	next = append(next, cloneAll(r.employees[:i])...)
	next = append(next, cloneAll(r.employees[i+1:])...)
	return r.commitLocked(ctx, next)
}

// Replace swaps the entire collection, e.g. when loading a demo scenario.
// Every employee is validated and ids are assigned where missing.
func (r *Roster) Replace(ctx context.Context, employees []Employee) error {
	next := make([]Employee, len(employees))
	for i, e := range employees {
		if err := ValidateEmployee(e); err != nil {
			return fmt.Errorf("employee %d: %w", i, err)
		}
		next[i] = assignIDs(e.Clone())
	}
	if err := checkUnique(next); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commitLocked(ctx, next)
}

// commitLocked persists next and only then makes it current. Leaving
// r.employees untouched on error is the rollback.
func (r *Roster) commitLocked(ctx context.Context, next []Employee) error {
	if err := r.backend.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save employees: %w", err)
	}
	r.employees = next
	r.dirty = true
	return nil
}

func (r *Roster) indexOf(id EmployeeID) int {
	for i := range r.employees {
		if r.employees[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// NewEmployeeID returns a fresh random employee id.
func NewEmployeeID() EmployeeID { return EmployeeID(uuid.NewString()) }

// NewDependentID returns a fresh random dependent id.
func NewDependentID() DependentID { return DependentID(uuid.NewString()) }

func assignIDs(e Employee) Employee {
	if e.ID == "" {
		e.ID = NewEmployeeID()
	}
	for i := range e.Dependents {
		if e.Dependents[i].ID == "" {
			e.Dependents[i].ID = NewDependentID()
		}
	}
	return e
}

// checkUnique enforces that every employee id and every dependent id is
// used once across the whole collection.
func checkUnique(employees []Employee) error {
	seen := make(map[string]bool)
	for _, e := range employees {
		if seen[string(e.ID)] {
			return &DuplicateIDError{ID: string(e.ID), Kind: "employee"}
		}
		seen[string(e.ID)] = true
		for _, d := range e.Dependents {
			if seen[string(d.ID)] {
				return &DuplicateIDError{ID: string(d.ID), Kind: "dependent"}
			}
			seen[string(d.ID)] = true
		}
	}
	return nil
}
