/*
handlers.go - HTTP API handlers for the benefits cost engine

PURPOSE:
  Exposes the Roster and the cost functions via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to package benefits.

ENDPOINTS:
  Employees:
    GET    /api/employees              Filtered, sorted, paginated list
    POST   /api/employees              Add employee
    GET    /api/employees/{id}         Get employee with costs
    PUT    /api/employees/{id}         Replace employee (keeps position)
    DELETE /api/employees/{id}         Remove employee and dependents
    GET    /api/employees/{id}/costs   Cost breakdown

  Costs:
    POST   /api/costs/preview          Costs of an unsaved form
    GET    /api/summary                Roster roll-up (204 when empty)
    GET    /api/rates                  Active rates

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Replace the roster with a scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Roster: The employee store (persists on every mutation)
  - Seed: Generator used by generated scenarios
  - Metrics, Logger: Observability

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee not found
  - 409: Duplicate id
  - 500: Internal errors (storage)

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/obs"
	"github.com/warp/benefits-engine/seed"
)

const maxPageSize = 100

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Roster   *benefits.Roster
	Seed     seed.Generator
	Metrics  *obs.RosterMetrics
	Logger   zerolog.Logger
	PageSize int

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler over roster.
func NewHandler(roster *benefits.Roster, logger zerolog.Logger) *Handler {
	return &Handler{
		Roster:   roster,
		Seed:     seed.DefaultGenerator(),
		Logger:   logger,
		PageSize: benefits.DefaultPageSize,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns one page of employees matching q, sorted by name.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page, err := intParam(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page", err)
		return
	}
	limit, err := intParam(r, "limit", h.PageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	rates := h.Roster.Rates()
	p := benefits.Paginate(h.Roster.Search(query), page, limit)

	resp := EmployeeListResponse{
		Items:      make([]EmployeeDTO, len(p.Items)),
		Query:      strings.TrimSpace(query),
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
	for i, e := range p.Items {
		resp.Items[i] = toEmployeeDTO(rates, e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetEmployee returns a single employee with costs.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.Roster.Get(employeeID(r))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(h.Roster.Rates(), e))
}

// CreateEmployee adds an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	added, err := h.Roster.Add(r.Context(), req.toEmployee())
	h.Metrics.ObserveMutation("add", err)
	if err != nil {
		h.writeDomainError(w, "Failed to create employee", err)
		return
	}
	h.forgetScenario()

	h.Logger.Info().Str("employee_id", string(added.ID)).Int("dependents", len(added.Dependents)).Msg("employee added")
	writeJSON(w, http.StatusCreated, toEmployeeDTO(h.Roster.Rates(), added))
}

// UpdateEmployee replaces the employee named in the path.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id := employeeID(r)
	if req.ID != "" && benefits.EmployeeID(req.ID) != id {
		writeError(w, http.StatusBadRequest, "Body id does not match path id", nil)
		return
	}
	e := req.toEmployee()
	e.ID = id

	updated, err := h.Roster.Update(r.Context(), e)
	h.Metrics.ObserveMutation("update", err)
	if err != nil {
		h.writeDomainError(w, "Failed to update employee", err)
		return
	}
	h.forgetScenario()

	h.Logger.Info().Str("employee_id", string(updated.ID)).Msg("employee updated")
	writeJSON(w, http.StatusOK, toEmployeeDTO(h.Roster.Rates(), updated))
}

// DeleteEmployee removes an employee and its dependents.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	err := h.Roster.Remove(r.Context(), id)
	h.Metrics.ObserveMutation("remove", err)
	if err != nil {
		h.writeDomainError(w, "Failed to delete employee", err)
		return
	}
	h.forgetScenario()

	h.Logger.Info().Str("employee_id", string(id)).Msg("employee removed")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COST HANDLERS
// =============================================================================

// GetEmployeeCosts returns the cost breakdown of one employee.
func (h *Handler) GetEmployeeCosts(w http.ResponseWriter, r *http.Request) {
	costs, err := h.Roster.Costs(employeeID(r))
	if err != nil {
		h.writeDomainError(w, "Failed to get costs", err)
		return
	}
	writeJSON(w, http.StatusOK, toCostsDTO(costs))
}

// PreviewCosts prices a form that has not been saved. Blank names are
// allowed here; they simply don't qualify for the discount.
func (h *Handler) PreviewCosts(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(h.Roster.Rates(), req.toEmployee()))
}

// GetSummary returns the roll-up over the whole roster or over the
// employees matching q. No data is 204 No Content.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		totals benefits.SummaryTotals
		ok     bool
	)
	if query == "" {
		totals, ok = h.Roster.Summary()
	} else {
		totals, ok = h.Roster.Rates().Summarize(h.Roster.Search(query))
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(query, totals))
}

// GetRates returns the active rates.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRatesDTO(h.Roster.Rates()))
}

// Health reports liveness and the roster size.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "employees": h.Roster.Len()})
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeID(r *http.Request) benefits.EmployeeID {
	return benefits.EmployeeID(chi.URLParam(r, "id"))
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, errors.New(name + " must be at least 1")
	}
	return v, nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: codeForStatus(status)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps benefits errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var verr *benefits.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   message,
			Code:    "validation_failed",
			Details: verr.Fields,
		})
	case benefits.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Employee not found", nil)
	case errors.Is(err, benefits.ErrDuplicateID):
		writeError(w, http.StatusConflict, message, err)
	case benefits.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "duplicate_id"
	default:
		return "internal"
	}
}
