package benefits_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/benefits-engine/benefits"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const epsilon = 1e-9

func employee(name string, deps ...string) benefits.Employee {
	e := benefits.Employee{ID: "1", Name: name}
	for i, d := range deps {
		e.Dependents = append(e.Dependents, benefits.Dependent{
			ID:   benefits.DependentID(fmt.Sprintf("d%d", i)),
			Name: d,
		})
	}
	return e
}

var sampleNames = []string{
	"", " ", "a", "A", "Alice", "alice", "  anna ", "ANNA", "\tAaron\n",
	"Bob", "bob", "Carl", "Diana", "Eli", "  Brian", "Ærin", "Ángel", "zed", "1abc",
}

// =============================================================================
// DISCOUNT RULE
// =============================================================================

func TestDiscountFactor_NamesStartingWithA(t *testing.T) {
	assert.Equal(t, 0.9, benefits.DiscountFactor("Alice"))
	assert.Equal(t, 0.9, benefits.DiscountFactor("adam"))
}

func TestDiscountFactor_OtherNamesPayFullPrice(t *testing.T) {
	// Names not starting with a/A after trimming are full price.
	for _, name := range []string{"Bob", "charlie", "  Brian", "", "   ", "Ángel", "1abc", "zed"} {
		assert.Equal(t, 1.0, benefits.DiscountFactor(name), "name %q", name)
	}
}

func TestDiscountFactor_IgnoresCaseAndSurroundingWhitespace(t *testing.T) {
	want := benefits.DiscountFactor("anna")
	assert.Equal(t, 0.9, want)
	assert.Equal(t, want, benefits.DiscountFactor("  Anna "))
	assert.Equal(t, want, benefits.DiscountFactor("ANNA"))
	assert.Equal(t, want, benefits.DiscountFactor("\tanna\n"))
}

func TestIsDiscountEligible_AgreesWithFactor(t *testing.T) {
	// GIVEN: Several rate configurations, including "no discount" (1) and
	//        "free" (0)
	// WHEN: Classifying every sample name
	// THEN: Eligible exactly when the factor is below 1

	for _, multiplier := range []float64{0, 0.5, 0.9, 1} {
		rates := benefits.DefaultRates()
		rates.DiscountMultiplier = multiplier
		for _, name := range sampleNames {
			assert.Equal(t, rates.DiscountFactor(name) < 1, rates.IsDiscountEligible(name),
				"multiplier %v, name %q", multiplier, name)
		}
	}
}

func TestIsDiscountEligible_NoDiscountConfigured(t *testing.T) {
	rates := benefits.DefaultRates()
	rates.DiscountMultiplier = 1

	assert.True(t, benefits.QualifiesForDiscount("Alice"))
	assert.False(t, rates.IsDiscountEligible("Alice"))
	assert.Equal(t, 1.0, rates.DiscountFactor("Alice"))
}

// =============================================================================
// COST CALCULATOR
// =============================================================================

func TestCalculateCosts_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		employee  benefits.Employee
		wantTotal float64
	}{
		{"no dependents", employee("Bob"), 1000},
		{"discounted employee", employee("Alice"), 900},
		{"full price dependents", employee("Bob", "Carl", "Diana"), 2000},
		{"one discounted dependent", employee("Bob", "Anna", "Eli"), 1950},
		{"employee and dependent discounted", employee("Alice", "Aaron"), 1350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			costs := benefits.CalculateCosts(tt.employee)
			assert.InDelta(t, tt.wantTotal, costs.TotalYearly, epsilon)
			assert.Equal(t, costs.TotalYearly/26, costs.PerPaycheck)
		})
	}
}

func TestCalculateCosts_PerPaycheckForBob(t *testing.T) {
	costs := benefits.CalculateCosts(employee("Bob"))

	assert.Equal(t, 1000.0, costs.TotalYearly)
	assert.InDelta(t, 38.46, costs.PerPaycheck, 0.005)
}

func TestCalculateCosts_IsAdditive(t *testing.T) {
	// Total equals the employee cost plus each dependent's cost, for every
	// combination of sample names.
	rates := benefits.DefaultRates()
	for _, name := range sampleNames {
		e := employee(name, sampleNames...)

		want := rates.EmployeeCost * rates.DiscountFactor(e.Name)
		for _, d := range e.Dependents {
			want += rates.DependentCost * rates.DiscountFactor(d.Name)
		}

		costs := rates.CalculateCosts(e)
		assert.InDelta(t, want, costs.TotalYearly, epsilon, "employee %q", name)
		assert.Equal(t, rates.EmployeeCost*rates.DiscountFactor(e.Name), costs.EmployeeYearly)
		assert.InDelta(t, costs.TotalYearly, costs.EmployeeYearly+costs.DependentsYearly, epsilon)
	}
}

func TestCalculateCosts_PerPaycheckIsExactDivision(t *testing.T) {
	for _, periods := range []int{1, 12, 24, 26, 52} {
		rates := benefits.DefaultRates()
		rates.PayPeriods = periods

		costs := rates.CalculateCosts(employee("Alice", "Aaron", "Bea", "Cy"))
		assert.Equal(t, costs.TotalYearly/float64(periods), costs.PerPaycheck, "periods %d", periods)
	}
}

func TestCalculateCosts_DependentOrderDoesNotMatter(t *testing.T) {
	forward := benefits.CalculateCosts(employee("Bob", "Anna", "Eli", "Aaron", "Zoe", "Ava"))
	reverse := benefits.CalculateCosts(employee("Bob", "Ava", "Zoe", "Aaron", "Eli", "Anna"))

	assert.InDelta(t, forward.TotalYearly, reverse.TotalYearly, epsilon)
	assert.InDelta(t, forward.PerPaycheck, reverse.PerPaycheck, epsilon)
}

func TestCalculateCosts_DoesNotMutateInput(t *testing.T) {
	e := employee("  Alice ", "Aaron")
	before := e.Clone()

	_ = benefits.CalculateCosts(e)

	assert.Equal(t, before, e)
}

func TestCalculateCosts_CustomRates(t *testing.T) {
	// GIVEN: Weekly payroll with no discount
	rates := benefits.Rates{EmployeeCost: 1200, DependentCost: 600, PayPeriods: 52, DiscountMultiplier: 1}
	require.NoError(t, rates.Validate())

	// WHEN: Costing an "A" employee with one dependent
	costs := rates.CalculateCosts(employee("Alice", "Aaron"))

	// THEN: No discount, 52 paychecks
	assert.Equal(t, 1800.0, costs.TotalYearly)
	assert.Equal(t, 1800.0/52, costs.PerPaycheck)
}

func TestCalculateCosts_NeverNegative(t *testing.T) {
	rates := benefits.Rates{EmployeeCost: 0, DependentCost: 0, PayPeriods: 26, DiscountMultiplier: 0}
	costs := rates.CalculateCosts(employee("Alice", "Bob"))

	assert.GreaterOrEqual(t, costs.TotalYearly, 0.0)
	assert.Equal(t, 0.0, costs.TotalYearly)
}

func TestDependentYearly_SumsToDependentsYearly(t *testing.T) {
	// GIVEN: An employee with discounted and full-price dependents
	rates := benefits.DefaultRates()
	e := employee("Bob", "Anna", "Eli", "  aaron")

	// WHEN: Adding up the per-dependent figures
	var sum float64
	for _, d := range e.Dependents {
		sum += rates.DependentYearly(d)
	}

	// THEN: They match the breakdown
	assert.InDelta(t, rates.CalculateCosts(e).DependentsYearly, sum, epsilon)
	assert.Equal(t, 450.0, rates.DependentYearly(e.Dependents[0]))
	assert.Equal(t, 500.0, rates.DependentYearly(e.Dependents[1]))
}

// =============================================================================
// RATES
// =============================================================================

func TestRates_Validate(t *testing.T) {
	assert.NoError(t, benefits.DefaultRates().Validate())

	bad := []benefits.Rates{
		{EmployeeCost: -1, DependentCost: 500, PayPeriods: 26, DiscountMultiplier: 0.9},
		{EmployeeCost: 1000, DependentCost: -5, PayPeriods: 26, DiscountMultiplier: 0.9},
		{EmployeeCost: 1000, DependentCost: 500, PayPeriods: 0, DiscountMultiplier: 0.9},
		{EmployeeCost: 1000, DependentCost: 500, PayPeriods: 26, DiscountMultiplier: 1.5},
		{EmployeeCost: 1000, DependentCost: 500, PayPeriods: 26, DiscountMultiplier: -0.1},
		{EmployeeCost: math.Inf(1), DependentCost: 500, PayPeriods: 26, DiscountMultiplier: 0.9},
		{EmployeeCost: 1000, DependentCost: math.Inf(1), PayPeriods: 26, DiscountMultiplier: 0.9},
		{EmployeeCost: math.NaN(), DependentCost: 500, PayPeriods: 26, DiscountMultiplier: 0.9},
	}
	for _, r := range bad {
		err := r.Validate()
		assert.ErrorIs(t, err, benefits.ErrInvalidRates, "rates %+v", r)
		assert.True(t, benefits.IsClientError(err))
	}
}
