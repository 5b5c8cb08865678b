// Package repository defines the keyed storage contracts the node core
// consumes, and in-memory implementations of them.
//
// Storage imposes no ordering of its own; leaderboard ordering is imposed
// by the ranked store's comparator. Iteration order of keyed stores is
// unspecified.
package repository

import (
	"github.com/okian/gridarena/internal/domain/game"
	"github.com/okian/gridarena/internal/domain/leaderboard"
	"github.com/okian/gridarena/internal/domain/model"
	"github.com/okian/gridarena/internal/domain/sudoku"
	"github.com/okian/gridarena/internal/domain/tournament"
)

// AuditRecord is one finalized leaderboard entry in the audit log.
type AuditRecord = leaderboard.Entry

// PlayerStore keys participant profiles by participant ID.
type PlayerStore interface {
	GetPlayer(id string) (model.PlayerInfo, bool)
	// PutPlayer inserts or overwrites by key.
	PutPlayer(p model.PlayerInfo)
	Players() []model.PlayerInfo
	PlayerCount() int
}

// GameStore keys live game states by participant ID. One live instance per
// participant per tournament; ClearGames discards all of them when a new
// tournament starts.
type GameStore interface {
	GetGame(id string) (*game.State, bool)
	PutGame(id string, s *game.State)
	ClearGames()
}

// RegisterStore holds the handful of single-value registers.
type RegisterStore interface {
	ActiveTournament() (tournament.Tournament, bool)
	SetActiveTournament(t tournament.Tournament)

	CurrentPuzzle() (*sudoku.Board, bool)
	SetCurrentPuzzle(b *sudoku.Board)

	CachedSnapshot() (model.CachedSnapshot, bool)
	SetCachedSnapshot(s model.CachedSnapshot)
	ClearCachedSnapshot()

	// NextTournamentID allocates the next monotonic tournament ID.
	NextTournamentID() uint64

	// NextSeq allocates the next outbound message sequence for a
	// participant.
	NextSeq(participant string) uint64
}

// LogStore holds the append-only sequences.
type LogStore interface {
	AppendAudit(e AuditRecord)
	AuditLen() int

	AppendEvent(e model.EventRecord)
	// RecentEvents returns up to limit records, newest first.
	RecentEvents(limit int) []model.EventRecord
	EventCount() uint64

	AppendPastTournament(t tournament.Tournament)
	// PastTournaments returns up to limit tournaments, newest first.
	PastTournaments(limit int) []tournament.Tournament
}

// Store is the full storage surface a node operates on.
type Store interface {
	PlayerStore
	GameStore
	RegisterStore
	LogStore
}
