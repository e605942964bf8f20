/*
Package seed produces sample employee data.

PURPOSE:
  A fresh install has nothing to show, so the roster is seeded on first run
  with generated employees. Named scenarios give demos and tests a known
  starting point.

DETERMINISM:
  Generator is driven by gofakeit with a fixed seed, so the same seed yields
  the same names, dependent counts and ids on every run. Seed 0 asks
  gofakeit for a random seed.

SCENARIOS:
  sample:   Generated roster (Generator settings from config)
  large:    Generated roster at the size of the original demo data set
  examples: The worked cost examples, one employee each
  empty:    No employees

SEE ALSO:
  - benefits/roster.go: OpenRoster calls the seeder once per storage key
  - api/scenarios.go: HTTP loader
*/
package seed

import (
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/warp/benefits-engine/benefits"
)

// =============================================================================
// GENERATOR
// =============================================================================

const (
	DefaultCount         = 250
	DefaultMaxDependents = 3
	LargeCount           = 4259
)

// Generator builds Count employees, each with 0..MaxDependents dependents.
type Generator struct {
	Seed          int64
	Count         int
	MaxDependents int
}

// DefaultGenerator returns the settings used when nothing is configured.
func DefaultGenerator() Generator {
	return Generator{Seed: 1, Count: DefaultCount, MaxDependents: DefaultMaxDependents}
}

// Employees generates the collection. Every call with the same settings
// returns the same data.
func (g Generator) Employees() []benefits.Employee {
	faker := gofakeit.New(g.Seed)

	maxDeps := g.MaxDependents
	if maxDeps < 0 {
		maxDeps = 0
	}

	employees := make([]benefits.Employee, 0, max(g.Count, 0))
	for i := 0; i < g.Count; i++ {
		n := faker.Number(0, maxDeps)
		e := benefits.Employee{
			ID:         benefits.EmployeeID(faker.UUID()),
			Name:       fullName(faker),
			Dependents: make([]benefits.Dependent, 0, n),
		}
		for j := 0; j < n; j++ {
			e.Dependents = append(e.Dependents, benefits.Dependent{
				ID:   benefits.DependentID(faker.UUID()),
				Name: fullName(faker),
			})
		}
		employees = append(employees, e)
	}
	return employees
}

// Seeder adapts the generator to benefits.Seeder.
func (g Generator) Seeder() benefits.Seeder {
	return g.Employees
}

func fullName(f *gofakeit.Faker) string {
	return f.FirstName() + " " + f.LastName()
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ErrUnknownScenario is returned by Build for an unregistered id.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is a named starting collection.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	build func(Generator) []benefits.Employee
}

var scenarios = []Scenario{
	{
		ID:          "sample",
		Name:        "Sample Roster",
		Description: "Generated employees with up to three dependents each",
		build:       func(g Generator) []benefits.Employee { return g.Employees() },
	},
	{
		ID:          "large",
		Name:        "Large Roster",
		Description: "Generated roster at full demo size for list and summary performance",
		build: func(g Generator) []benefits.Employee {
			g.Count = LargeCount
			return g.Employees()
		},
	},
	{
		ID:          "examples",
		Name:        "Worked Examples",
		Description: "Discounted and full-price employees with known yearly totals",
		build:       func(Generator) []benefits.Employee { return Examples() },
	},
	{
		ID:          "empty",
		Name:        "Empty Roster",
		Description: "No employees; the summary reports no data",
		build:       func(Generator) []benefits.Employee { return []benefits.Employee{} },
	},
}

// Scenarios lists the registered scenarios in display order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// Build returns the collection for scenario id, using g for generated ones.
func Build(id string, g Generator) ([]benefits.Employee, error) {
	for _, s := range scenarios {
		if s.ID == id {
			return s.build(g), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
}

// Examples returns the worked examples with fixed ids. At default rates
// the yearly totals are 1000, 900, 2000, 1950 and 1350.
func Examples() []benefits.Employee {
	return []benefits.Employee{
		example("ex-1", "Bob Baker"),
		example("ex-2", "Alice Adams"),
		example("ex-3", "Bob Brown", "Carl Brown", "Diana Brown"),
		example("ex-4", "Bob Byrne", "Anna Byrne", "Eli Byrne"),
		example("ex-5", "Alice Archer", "Aaron Archer"),
	}
}

func example(id, name string, dependents ...string) benefits.Employee {
	e := benefits.Employee{
		ID:         benefits.EmployeeID(id),
		Name:       name,
		Dependents: make([]benefits.Dependent, len(dependents)),
	}
	for i, d := range dependents {
		e.Dependents[i] = benefits.Dependent{
			ID:   benefits.DependentID(fmt.Sprintf("%s-d%d", id, i+1)),
			Name: d,
		}
	}
	return e
}
