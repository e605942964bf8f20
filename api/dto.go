/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Domain types stay in
  package benefits; these add derived figures (costs, discount flags) and
  display strings so the frontend never re-implements the cost rules.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Employee:
    EmployeeDTO, DependentDTO, EmployeeRequest, EmployeeListResponse

  Costs:
    CostsDTO, FormattedCostsDTO

  Summary:
    SummaryResponse, FormattedSummaryDTO

  Scenarios:
    seed.Scenario, LoadScenarioRequest

VALIDATION:
  Request bodies are converted to benefits.Employee and validated by the
  Roster. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - format/format.go: Display strings
*/
package api

import (
	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/format"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EmployeeRequest is the body of create, update and preview calls.
// Ids are optional; missing ones are generated.
type EmployeeRequest struct {
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name"`
	Dependents []DependentRequest `json:"dependents"`
}

// DependentRequest is one dependent inside an EmployeeRequest.
type DependentRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

func (req EmployeeRequest) toEmployee() benefits.Employee {
	e := benefits.Employee{
		ID:         benefits.EmployeeID(req.ID),
		Name:       req.Name,
		Dependents: make([]benefits.Dependent, len(req.Dependents)),
	}
	for i, d := range req.Dependents {
		e.Dependents[i] = benefits.Dependent{ID: benefits.DependentID(d.ID), Name: d.Name}
	}
	return e
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EmployeeDTO is an employee with its derived costs.
type EmployeeDTO struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Discounted bool           `json:"discounted"`
	Dependents []DependentDTO `json:"dependents"`
	Costs      CostsDTO       `json:"costs"`
}

// DependentDTO is a dependent with its own yearly cost.
type DependentDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Discounted bool    `json:"discounted"`
	YearlyCost float64 `json:"yearly_cost"`
}

// CostsDTO is benefits.CostBreakdown plus display strings.
type CostsDTO struct {
	benefits.CostBreakdown
	Formatted FormattedCostsDTO `json:"formatted"`
}

// FormattedCostsDTO holds currency strings for display.
type FormattedCostsDTO struct {
	EmployeeYearly   string `json:"employee_yearly"`
	DependentsYearly string `json:"dependents_yearly"`
	TotalYearly      string `json:"total_yearly"`
	PerPaycheck      string `json:"per_paycheck"`
}

// EmployeeListResponse is one page of the filtered, sorted roster.
type EmployeeListResponse struct {
	Items      []EmployeeDTO `json:"items"`
	Query      string        `json:"query,omitempty"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalItems int           `json:"total_items"`
	TotalPages int           `json:"total_pages"`
}

// SummaryResponse wraps the roll-up with display strings.
type SummaryResponse struct {
	Query     string                 `json:"query,omitempty"`
	Totals    benefits.SummaryTotals `json:"totals"`
	Formatted FormattedSummaryDTO    `json:"formatted"`
}

// FormattedSummaryDTO holds the headline summary figures as strings.
type FormattedSummaryDTO struct {
	CombinedYearlyTotal        string `json:"combined_yearly_total"`
	CombinedPerPaycheckTotal   string `json:"combined_per_paycheck_total"`
	EmployeeYearlyTotal        string `json:"employee_yearly_total"`
	DependentYearlyTotal       string `json:"dependent_yearly_total"`
	AverageCombinedYearly      string `json:"average_combined_yearly"`
	AverageCombinedPerPaycheck string `json:"average_combined_per_paycheck"`
	CombinedYearlyCompact      string `json:"combined_yearly_compact"`
}

// RatesDTO exposes the active rates.
type RatesDTO struct {
	EmployeeCost   float64 `json:"employee_cost"`
	DependentCost  float64 `json:"dependent_cost"`
	PayPeriods     int     `json:"pay_periods"`
	DiscountFactor float64 `json:"discount_factor"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(rates benefits.Rates, e benefits.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         string(e.ID),
		Name:       e.Name,
		Discounted: rates.IsDiscountEligible(e.Name),
		Dependents: make([]DependentDTO, len(e.Dependents)),
		Costs:      toCostsDTO(rates.CalculateCosts(e)),
	}
	for i, d := range e.Dependents {
		dto.Dependents[i] = DependentDTO{
			ID:         string(d.ID),
			Name:       d.Name,
			Discounted: rates.IsDiscountEligible(d.Name),
			YearlyCost: rates.DependentYearly(d),
		}
	}
	return dto
}

func toCostsDTO(c benefits.CostBreakdown) CostsDTO {
	return CostsDTO{
		CostBreakdown: c,
		Formatted: FormattedCostsDTO{
			EmployeeYearly:   format.Currency(c.EmployeeYearly),
			DependentsYearly: format.Currency(c.DependentsYearly),
			TotalYearly:      format.Currency(c.TotalYearly),
			PerPaycheck:      format.Currency(c.PerPaycheck),
		},
	}
}

func toSummaryResponse(query string, t benefits.SummaryTotals) SummaryResponse {
	return SummaryResponse{
		Query:  query,
		Totals: t,
		Formatted: FormattedSummaryDTO{
			CombinedYearlyTotal:        format.Currency(t.CombinedYearlyTotal),
			CombinedPerPaycheckTotal:   format.Currency(t.CombinedPerPaycheckTotal),
			EmployeeYearlyTotal:        format.Currency(t.EmployeeYearlyTotal),
			DependentYearlyTotal:       format.Currency(t.DependentYearlyTotal),
			AverageCombinedYearly:      format.Currency(t.AverageCombinedYearly),
			AverageCombinedPerPaycheck: format.Currency(t.AverageCombinedPerPaycheck),
			CombinedYearlyCompact:      format.Currency(t.CombinedYearlyTotal, format.WithCompact()),
		},
	}
}

func toRatesDTO(r benefits.Rates) RatesDTO {
	return RatesDTO{
		EmployeeCost:   r.EmployeeCost,
		DependentCost:  r.DependentCost,
		PayPeriods:     r.PayPeriods,
		DiscountFactor: r.DiscountMultiplier,
	}
}
