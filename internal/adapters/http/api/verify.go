// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/gridarena/internal/domain/sudoku"
)

// VerifyHandler replays move transcripts for out-of-band score auditing.
type VerifyHandler struct {
	deps Dependencies
}

// NewVerifyHandler creates a new verify handler.
func NewVerifyHandler(deps Dependencies) *VerifyHandler {
	return &VerifyHandler{deps: deps}
}

type verifyRequest struct {
	Seed  uint64        `json:"seed"`
	Moves []sudoku.Move `json:"moves"`
}

// HandleVerify handles POST /verify requests.
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Verify(r.Context(), req.Seed, req.Moves))
}
