// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// QueryHandler serves read-only projections of node state. The puzzle
// projection never includes the solution.
type QueryHandler struct {
	deps Dependencies
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(deps Dependencies) *QueryHandler {
	return &QueryHandler{deps: deps}
}

// HandlePuzzle handles GET /puzzle requests.
func (h *QueryHandler) HandlePuzzle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	grid, err := h.deps.PuzzleGrid(r.Context())
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"puzzle": grid})
}

// HandleGame handles GET /game/{participant} requests.
func (h *QueryHandler) HandleGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	participant := strings.TrimPrefix(r.URL.Path, "/game/")
	if participant == "" || strings.Contains(participant, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	state, err := h.deps.GameState(r.Context(), participant)
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandlePlayers handles GET /players requests.
func (h *QueryHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Players(r.Context()))
}

// HandlePlayer handles GET /player/{id} requests.
func (h *QueryHandler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/player/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	info, err := h.deps.Player(r.Context(), id)
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
