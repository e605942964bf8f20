package benefits

import (
	"fmt"
	"math"
)

// Default rates.
const (
	DefaultEmployeeCost       = 1000.0
	DefaultDependentCost      = 500.0
	DefaultPayPeriods         = 26
	DefaultDiscountMultiplier = 0.9
)

// Rates holds the configured constants every cost calculation reads.
// Override any of them (52 pay periods, multiplier 1 for "no discount")
// without touching the calculation code.
type Rates struct {
	EmployeeCost       float64 `json:"employee_cost" validate:"gte=0"`
	DependentCost      float64 `json:"dependent_cost" validate:"gte=0"`
	PayPeriods         int     `json:"pay_periods" validate:"gt=0"`
	DiscountMultiplier float64 `json:"discount_multiplier" validate:"gte=0,lte=1"`
}

// DefaultRates returns 1000 per employee, 500 per dependent, 26 pay periods
// and a 10% discount.
func DefaultRates() Rates {
	return Rates{
		EmployeeCost:       DefaultEmployeeCost,
		DependentCost:      DefaultDependentCost,
		PayPeriods:         DefaultPayPeriods,
		DiscountMultiplier: DefaultDiscountMultiplier,
	}
}

// Validate rejects negative or infinite costs, a non-positive pay period
// count and a multiplier outside [0, 1].
func (r Rates) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRates, describeValidation(err))
	}
	if math.IsInf(r.EmployeeCost, 0) || math.IsInf(r.DependentCost, 0) {
		return fmt.Errorf("%w: costs must be finite", ErrInvalidRates)
	}
	return nil
}

// Package-level shortcuts over DefaultRates.

func DiscountFactor(name string) float64 { return DefaultRates().DiscountFactor(name) }
func IsDiscountEligible(name string) bool { return DefaultRates().IsDiscountEligible(name) }
func CalculateCosts(e Employee) CostBreakdown { return DefaultRates().CalculateCosts(e) }
func Summarize(employees []Employee) (SummaryTotals, bool) { return DefaultRates().Summarize(employees) }
