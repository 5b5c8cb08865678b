// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// TournamentHandler serves tournament lifecycle and history. Lifecycle
// mutations always run on the hub; the active-tournament read runs on the
// local node so a participant sees its own synced copy.
type TournamentHandler struct {
	hub   Dependencies
	local Dependencies
}

// NewTournamentHandler creates a new tournament handler.
func NewTournamentHandler(hub, local Dependencies) *TournamentHandler {
	return &TournamentHandler{hub: hub, local: local}
}

// HandleTournament handles GET /tournament requests.
func (h *TournamentHandler) HandleTournament(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	t, ok := h.local.ActiveTournament(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleStats handles GET /tournament/stats and GET /stats requests.
func (h *TournamentHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats, err := h.hub.Stats(r.Context())
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleHistory handles GET /tournaments?limit=N requests.
func (h *TournamentHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.hub.PastTournaments(r.Context(), queryLimit(r, 20)))
}

// HandleEvents handles GET /events?limit=N requests.
func (h *TournamentHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.hub.RecentEvents(r.Context(), queryLimit(r, 50)))
}

type startRequest struct {
	Seed         uint64 `json:"seed"`
	DurationSecs uint64 `json:"duration_secs"`
}

// HandleStart handles POST /tournament/start requests. Admin only.
func (h *TournamentHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if req.DurationSecs == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	t, err := h.hub.StartTournament(r.Context(), caller, req.Seed, req.DurationSecs)
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// HandleEnd handles POST /tournament/end requests. Admin only.
func (h *TournamentHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	t, err := h.hub.EndTournament(r.Context(), caller)
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// queryLimit parses ?limit=N, falling back to def for absent or invalid
// values.
func queryLimit(r *http.Request, def int) int {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
