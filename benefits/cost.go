/*
cost.go - Per-employee cost calculation

PURPOSE:
  Answers "what does this employee cost per year and per paycheck?"

FORMULA:
  EmployeeYearly   = EmployeeCost  * DiscountFactor(employee.Name)
  DependentsYearly = sum of DependentCost * DiscountFactor(dependent.Name)
  TotalYearly      = EmployeeYearly + DependentsYearly
  PerPaycheck      = TotalYearly / PayPeriods

EXAMPLE (default rates):
  Bob, dependents [Anna, Eli]:  1000 + 450 + 500 = 1950 / year, 75 / paycheck

SEE ALSO:
  - discount.go: DiscountFactor
  - DependentYearly: One dependent's share, for per-row displays
  - summary.go: Aggregation over a collection
*/
package benefits

// CalculateCosts derives the CostBreakdown of one employee. It has no side
// effects and does not modify e.
func (r Rates) CalculateCosts(e Employee) CostBreakdown {
	employeeYearly := r.EmployeeCost * r.DiscountFactor(e.Name)

	var dependentsYearly float64
	for _, d := range e.Dependents {
		dependentsYearly += r.DependentYearly(d)
	}

	total := employeeYearly + dependentsYearly
	return CostBreakdown{
		EmployeeYearly:   employeeYearly,
		DependentsYearly: dependentsYearly,
		TotalYearly:      total,
		PerPaycheck:      total / float64(r.PayPeriods),
	}
}

// DependentYearly is the yearly cost of a single dependent. CalculateCosts
// sums it, so per-dependent figures always add up to DependentsYearly.
func (r Rates) DependentYearly(d Dependent) float64 {
	return r.DependentCost * r.DiscountFactor(d.Name)
}
