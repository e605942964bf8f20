/*
errors.go - Centralized error types for the benefits engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The cost functions never fail; these errors belong to the boundary
  (validation) and to the Roster and its backends.

ERROR CATEGORIES:
  1. Validation errors - Malformed employee or rates input
  2. Roster errors - Unknown or duplicate identifiers
  3. Backend errors - Nothing persisted yet under the storage key

USAGE:
    if errors.Is(err, benefits.ErrEmployeeNotFound) {
        // 404
    }

SEE ALSO:
  - validate.go: Produces ValidationError
  - roster.go: Produces DuplicateIDError and ErrEmployeeNotFound
*/
package benefits

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when an id does not match any employee.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicateID is returned when an employee or dependent id is
	// already used elsewhere in the collection.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidEmployee is returned when an employee fails boundary validation.
	ErrInvalidEmployee = errors.New("invalid employee")

	// ErrInvalidRates is returned when configured rates are out of range.
	ErrInvalidRates = errors.New("invalid rates")

	// ErrNotPersisted is returned by Backend.Load when nothing has been
	// stored under the storage key yet. The Roster seeds on this error.
	ErrNotPersisted = errors.New("no data persisted")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError names one failed field, using JSON field paths
// (e.g. "dependents[1].name").
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Rule)
	}
	return "invalid employee: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEmployee
}

// DuplicateIDError identifies the id that collided.
type DuplicateIDError struct {
	ID   string
	Kind string // "employee" or "dependent"
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id: %s", e.Kind, e.ID)
}

func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidEmployee) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrInvalidRates)
}

// IsNotFound returns true if the error indicates a missing employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}
