/*
Package benefits provides the benefits cost engine.

PURPOSE:
  Computes what an employee's benefits cost the company, for the employee
  and for each dependent, and rolls those costs up across the whole roster.
  The cost functions are pure: they read an in-memory snapshot and never
  touch storage. The Roster (roster.go) owns the collection and persists it
  through a Backend.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee / Dependent: The records entered through the UI or API
  - CostBreakdown: Derived yearly and per-paycheck cost for one employee
  - SummaryTotals: Derived roll-up across a collection of employees

DERIVED STATE:
  CostBreakdown and SummaryTotals are never stored. Any caller that mutates
  the collection re-derives them; the Roster caches the summary behind a
  dirty flag so repeated reads are cheap.

USAGE:
  rates := benefits.DefaultRates()
  costs := rates.CalculateCosts(benefits.Employee{Name: "Alice"})
  // costs.TotalYearly == 900, costs.PerPaycheck == 900/26

SEE ALSO:
  - rates.go: Configured constants
  - discount.go: Name-based discount rule
  - cost.go: Per-employee calculation
  - summary.go: Collection roll-up
  - roster.go: Employee store
*/
package benefits

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type DependentID string

// =============================================================================
// RECORDS
// =============================================================================

// Dependent is owned by exactly one Employee and has no lifecycle of its own.
type Dependent struct {
	ID   DependentID `json:"id"`
	Name string      `json:"name" validate:"notblank"`
}

// Employee is a roster entry. ID is stable across edits; Dependents keep
// the order in which they were entered.
type Employee struct {
	ID         EmployeeID  `json:"id"`
	Name       string      `json:"name" validate:"notblank"`
	Dependents []Dependent `json:"dependents" validate:"dive"`
}

// Clone returns a deep copy so callers can't alias the roster's slices.
// A nil Dependents comes back empty, which keeps JSON output as [].
func (e Employee) Clone() Employee {
	out := e
	out.Dependents = make([]Dependent, len(e.Dependents))
	copy(out.Dependents, e.Dependents)
	return out
}

func cloneAll(employees []Employee) []Employee {
	out := make([]Employee, len(employees))
	for i, e := range employees {
		out[i] = e.Clone()
	}
	return out
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// CostBreakdown is the cost of one employee including dependents.
//
// EmployeeYearly and DependentsYearly are the decomposition of TotalYearly;
// the summary aggregator reads them instead of re-deriving the employee
// portion, so both share one source of truth for the rates.
type CostBreakdown struct {
	EmployeeYearly   float64 `json:"employee_yearly"`
	DependentsYearly float64 `json:"dependents_yearly"`
	TotalYearly      float64 `json:"total_yearly"`
	PerPaycheck      float64 `json:"per_paycheck"`
}

// SummaryTotals is the roll-up over a non-empty collection.
// Values keep full float precision; rounding happens only when formatting.
type SummaryTotals struct {
	EmployeeCount            int `json:"employee_count"`
	DependentCount           int `json:"dependent_count"`
	PersonCount              int `json:"person_count"`
	DiscountedEmployeeCount  int `json:"discounted_employee_count"`
	DiscountedDependentCount int `json:"discounted_dependent_count"`

	EmployeeYearlyTotal  float64 `json:"employee_yearly_total"`
	DependentYearlyTotal float64 `json:"dependent_yearly_total"`
	CombinedYearlyTotal  float64 `json:"combined_yearly_total"`

	EmployeePerPaycheckTotal  float64 `json:"employee_per_paycheck_total"`
	DependentPerPaycheckTotal float64 `json:"dependent_per_paycheck_total"`
	CombinedPerPaycheckTotal  float64 `json:"combined_per_paycheck_total"`

	AverageEmployeeYearly      float64 `json:"average_employee_yearly"`
	AverageDependentYearly     float64 `json:"average_dependent_yearly"`
	AverageCombinedYearly      float64 `json:"average_combined_yearly"`
	AverageCombinedPerPaycheck float64 `json:"average_combined_per_paycheck"`
}
