/*
summary.go - Roll-up of costs across a collection of employees

PURPOSE:
  Folds CalculateCosts over every employee into counts, yearly totals,
  per-paycheck totals and per-employee averages.

DECOMPOSITION:
  Each employee's TotalYearly is split into:
    employee portion  = CostBreakdown.EmployeeYearly
    dependent portion = TotalYearly - employee portion
  The combined total is accumulated separately from TotalYearly, so
  employee + dependent == combined holds to floating-point precision.

EMPTY COLLECTION:
  Summarize returns ok == false and a zero SummaryTotals. Nothing is divided
  by the employee count in that case; callers render nothing.

PRECISION:
  No rounding here. Formatting (package format) is the only place figures
  are rounded.
*/
package benefits

// Summarize aggregates the collection. ok is false when employees is empty.
func (r Rates) Summarize(employees []Employee) (totals SummaryTotals, ok bool) {
	if len(employees) == 0 {
		return SummaryTotals{}, false
	}

	for _, e := range employees {
		costs := r.CalculateCosts(e)

		totals.EmployeeYearlyTotal += costs.EmployeeYearly
		totals.DependentYearlyTotal += costs.TotalYearly - costs.EmployeeYearly
		totals.CombinedYearlyTotal += costs.TotalYearly

		totals.DependentCount += len(e.Dependents)
		if r.IsDiscountEligible(e.Name) {
			totals.DiscountedEmployeeCount++
		}
		for _, d := range e.Dependents {
			if r.IsDiscountEligible(d.Name) {
				totals.DiscountedDependentCount++
			}
		}
	}

	totals.EmployeeCount = len(employees)
	totals.PersonCount = totals.EmployeeCount + totals.DependentCount

	periods := float64(r.PayPeriods)
	totals.EmployeePerPaycheckTotal = totals.EmployeeYearlyTotal / periods
	totals.DependentPerPaycheckTotal = totals.DependentYearlyTotal / periods
	totals.CombinedPerPaycheckTotal = totals.CombinedYearlyTotal / periods

	// EmployeeCount > 0 past the early return.
	n := float64(totals.EmployeeCount)
	totals.AverageEmployeeYearly = totals.EmployeeYearlyTotal / n
	totals.AverageDependentYearly = totals.DependentYearlyTotal / n
	totals.AverageCombinedYearly = totals.CombinedYearlyTotal / n
	totals.AverageCombinedPerPaycheck = totals.CombinedPerPaycheckTotal / n

	return totals, true
}
