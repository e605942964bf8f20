/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Replaces the roster with one of the named collections from package seed,
  so demos and manual testing start from a known state.

HOW SCENARIOS WORK:
 1. Build the collection (generated scenarios use Handler.Seed)
 2. Replace the roster in one save
 3. Remember the scenario id for GET /api/scenarios/current until the
    next add, update or delete edits the roster

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "examples"}

NOTE:

	Loading a scenario discards the current roster. Only use in
	development/demo environments.

SEE ALSO:
  - seed/seed.go: Scenario definitions
*/
package api

import (
	"errors"
	"net/http"

	"github.com/warp/benefits-engine/seed"
)

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, seed.Scenarios())
}

// GetCurrentScenario returns the scenario the roster still matches, or null
// once it has been edited or when none was loaded by this process.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range seed.Scenarios() {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the roster with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	employees, err := seed.Build(req.ScenarioID, h.Seed)
	if errors.Is(err, seed.ErrUnknownScenario) {
		writeError(w, http.StatusBadRequest, "Unknown scenario", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build scenario", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	err = h.Roster.Replace(r.Context(), employees)
	h.Metrics.ObserveMutation("replace", err)
	if err != nil {
		h.writeDomainError(w, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	h.Logger.Info().Str("scenario", req.ScenarioID).Int("employees", len(employees)).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "loaded",
		"scenario":  req.ScenarioID,
		"employees": len(employees),
	})
}

// forgetScenario clears the current scenario after any other mutation.
func (h *Handler) forgetScenario() {
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
}
