// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/gridarena/internal/domain/game"
	"github.com/okian/gridarena/internal/domain/leaderboard"
	"github.com/okian/gridarena/internal/domain/model"
	"github.com/okian/gridarena/internal/domain/sudoku"
	"github.com/okian/gridarena/internal/domain/tournament"
	"github.com/okian/gridarena/internal/node"
)

// identityHeader carries the authenticated caller ID. An upstream proxy is
// expected to have verified it; the node layer enforces authorization.
const identityHeader = "X-Participant-ID"

// Dependencies is the node surface the HTTP handlers call. Using an
// interface bundle keeps the handler layer loosely coupled to the node
// implementation.
type Dependencies interface {
	RegisterPlayer(ctx context.Context, caller, displayName string) (model.PlayerInfo, error)
	UpdateUsername(ctx context.Context, caller, displayName string) (model.PlayerInfo, error)
	PlaceCell(ctx context.Context, caller string, row, col int, value uint8) (node.PlaceOutcome, error)
	ClearCell(ctx context.Context, caller string, row, col int) error
	RequestLeaderboard(ctx context.Context, limit int) error
	StartTournament(ctx context.Context, caller string, seed, durationSecs uint64) (tournament.Tournament, error)
	EndTournament(ctx context.Context, caller string) (tournament.Tournament, error)

	PuzzleGrid(ctx context.Context) (sudoku.Grid, error)
	GameState(ctx context.Context, participant string) (*game.State, error)
	Player(ctx context.Context, id string) (model.PlayerInfo, error)
	Players(ctx context.Context) []model.PlayerInfo
	ActiveTournament(ctx context.Context) (tournament.Tournament, bool)
	Stats(ctx context.Context) (tournament.Stats, error)
	Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error)
	CachedSnapshot(ctx context.Context) (model.CachedSnapshot, bool)
	RecentEvents(ctx context.Context, limit int) []model.EventRecord
	PastTournaments(ctx context.Context, limit int) []tournament.Tournament
	Verify(ctx context.Context, seed uint64, moves []sudoku.Move) sudoku.VerifyResult
}

// Server wires HTTP routes for the tournament API. local serves play and
// read traffic; hub serves leaderboard reads and admin lifecycle calls.
// In a hub-only deployment both are the same node.
type Server struct {
	healthHandler      *HealthHandler
	playHandler        *PlayHandler
	queryHandler       *QueryHandler
	tournamentHandler  *TournamentHandler
	leaderboardHandler *LeaderboardHandler
	verifyHandler      *VerifyHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(local, hub Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		playHandler:        NewPlayHandler(local),
		queryHandler:       NewQueryHandler(local),
		tournamentHandler:  NewTournamentHandler(hub, local),
		leaderboardHandler: NewLeaderboardHandler(hub, local),
		verifyHandler:      NewVerifyHandler(local),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)

	mux.HandleFunc("/register", MetricsMiddleware(s.playHandler.HandleRegister, "register"))
	mux.HandleFunc("/rename", MetricsMiddleware(s.playHandler.HandleRename, "rename"))
	mux.HandleFunc("/move", MetricsMiddleware(s.playHandler.HandleMove, "move"))
	mux.HandleFunc("/clear", MetricsMiddleware(s.playHandler.HandleClear, "clear"))

	mux.HandleFunc("/puzzle", MetricsMiddleware(s.queryHandler.HandlePuzzle, "puzzle"))
	mux.HandleFunc("/game/", MetricsMiddleware(s.queryHandler.HandleGame, "game"))
	mux.HandleFunc("/players", MetricsMiddleware(s.queryHandler.HandlePlayers, "players"))
	mux.HandleFunc("/player/", MetricsMiddleware(s.queryHandler.HandlePlayer, "player"))

	mux.HandleFunc("/tournament", MetricsMiddleware(s.tournamentHandler.HandleTournament, "tournament"))
	mux.HandleFunc("/tournament/stats", MetricsMiddleware(s.tournamentHandler.HandleStats, "tournament_stats"))
	mux.HandleFunc("/tournament/start", MetricsMiddleware(s.tournamentHandler.HandleStart, "tournament_start"))
	mux.HandleFunc("/tournament/end", MetricsMiddleware(s.tournamentHandler.HandleEnd, "tournament_end"))
	mux.HandleFunc("/tournaments", MetricsMiddleware(s.tournamentHandler.HandleHistory, "tournaments"))
	mux.HandleFunc("/events", MetricsMiddleware(s.tournamentHandler.HandleEvents, "events"))

	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGet, "leaderboard"))
	mux.HandleFunc("/leaderboard/pull", MetricsMiddleware(s.leaderboardHandler.HandlePull, "leaderboard_pull"))
	mux.HandleFunc("/snapshot", MetricsMiddleware(s.leaderboardHandler.HandleSnapshot, "snapshot"))

	mux.HandleFunc("/verify", MetricsMiddleware(s.verifyHandler.HandleVerify, "verify"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.tournamentHandler.HandleStats, "stats"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// callerID extracts the authenticated identity, or writes a 401.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(identityHeader)
	if id == "" {
		writeError(w, http.StatusUnauthorized, "missing_identity", ErrMissingIdentity)
		return "", false
	}
	return id, true
}

// writeNodeError translates node and game sentinels to HTTP statuses.
func writeNodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, node.ErrNotRegistered),
		errors.Is(err, node.ErrNoGame),
		errors.Is(err, node.ErrNoPuzzle),
		errors.Is(err, node.ErrNoActiveTournament):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, node.ErrNotAdmin),
		errors.Is(err, node.ErrHubOnly),
		errors.Is(err, node.ErrParticipantOnly):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, node.ErrAlreadyRegistered),
		errors.Is(err, node.ErrTournamentActive),
		errors.Is(err, game.ErrBoardCompleted),
		errors.Is(err, game.ErrGivenCell):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, node.ErrInvalidUsername),
		errors.Is(err, node.ErrInvalidLimit),
		errors.Is(err, node.ErrOutsideWindow),
		errors.Is(err, game.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
