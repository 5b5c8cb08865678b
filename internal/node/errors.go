package node

import "errors"

// Validation errors: reported to the caller as structured failures and
// never mutate state.
var (
	ErrInvalidUsername    = errors.New("display name must be 1-32 characters")
	ErrAlreadyRegistered  = errors.New("participant already registered; use UpdateUsername to change")
	ErrNotRegistered      = errors.New("participant not registered")
	ErrNoActiveTournament = errors.New("no active tournament")
	ErrOutsideWindow      = errors.New("tournament time window has expired")
	ErrNoGame             = errors.New("no game in progress")
	ErrTournamentActive   = errors.New("a tournament is already active; end it first")
	ErrInvalidLimit       = errors.New("invalid leaderboard limit")
)

// Authorization errors: fail closed with no state change.
var (
	ErrNotAdmin        = errors.New("only the admin may perform this operation")
	ErrHubOnly         = errors.New("operation is only valid on the hub node")
	ErrParticipantOnly = errors.New("operation is only valid on a participant node")
)

// Invariant violations: the operation is aborted entirely; no partial
// state is persisted.
var (
	ErrNoPuzzle = errors.New("puzzle not loaded for this tournament")
)
