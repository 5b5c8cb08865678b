// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// LeaderboardHandler serves ranked reads and snapshot refreshes.
type LeaderboardHandler struct {
	hub   Dependencies
	local Dependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(hub, local Dependencies) *LeaderboardHandler {
	return &LeaderboardHandler{hub: hub, local: local}
}

// HandleGet handles GET /leaderboard?limit=N requests against the hub's
// authoritative ranking.
func (h *LeaderboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.hub.Leaderboard(r.Context(), queryLimit(r, 50))
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandlePull handles POST /leaderboard/pull requests: it asks the hub for
// a fresh snapshot and returns immediately. The refreshed snapshot shows
// up on GET /snapshot once the push lands.
func (h *LeaderboardHandler) HandlePull(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.local.RequestLeaderboard(r.Context(), queryLimit(r, 50)); err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleSnapshot handles GET /snapshot requests against the local cached
// copy. The snapshot may lag the hub; its fetched_at field says by how
// much.
func (h *LeaderboardHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, ok := h.local.CachedSnapshot(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
