// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// PlayHandler handles registration and board mutations.
type PlayHandler struct {
	deps Dependencies
}

// NewPlayHandler creates a new play handler.
func NewPlayHandler(deps Dependencies) *PlayHandler {
	return &PlayHandler{deps: deps}
}

type registerRequest struct {
	DisplayName string `json:"display_name"`
}

func (req registerRequest) validate() error {
	if strings.TrimSpace(req.DisplayName) == "" {
		return errors.New("missing display_name")
	}
	return nil
}

// HandleRegister handles POST /register requests.
func (h *PlayHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	info, err := h.deps.RegisterPlayer(r.Context(), caller, req.DisplayName)
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// HandleRename handles POST /rename requests.
func (h *PlayHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	info, err := h.deps.UpdateUsername(r.Context(), caller, req.DisplayName)
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type moveRequest struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Value uint8 `json:"value"`
}

// HandleMove handles POST /move requests.
func (h *PlayHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	outcome, err := h.deps.PlaceCell(r.Context(), caller, req.Row, req.Col, req.Value)
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// HandleClear handles POST /clear requests.
func (h *PlayHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.ClearCell(r.Context(), caller, req.Row, req.Col); err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
