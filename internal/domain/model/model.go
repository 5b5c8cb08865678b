// Package model contains shared domain models passed between layers.
package model

import (
	"github.com/okian/gridarena/internal/domain/leaderboard"
)

// PlayerInfo is a registered participant's profile.
type PlayerInfo struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	RegisteredAt int64  `json:"registered_at"`
}

// CachedSnapshot is a participant-side copy of the hub's leaderboard,
// replaced wholesale whenever a fresher one arrives. Never recomputed
// locally.
type CachedSnapshot struct {
	Entries      []leaderboard.Entry `json:"entries"`
	TournamentID uint64              `json:"tournament_id"`
	IsActive     bool                `json:"is_active"`
	FetchedAt    int64               `json:"fetched_at"`
}

// EventRecord is one row in the append-only event log kept for the
// recent-events query tail.
type EventRecord struct {
	Kind   string `json:"kind"`
	At     int64  `json:"at"`
	Detail string `json:"detail"`
}
