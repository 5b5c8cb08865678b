// Package tournament defines the tournament descriptor and its lifecycle
// invariants. Lifecycle transitions are hub-authoritative: only the hub
// creates, activates, and ends tournaments; participants hold synced copies.
package tournament

// Tournament describes one timed competition window. IDs are strictly
// increasing per hub; history is append-only.
type Tournament struct {
	ID   uint64 `json:"id"`
	Seed uint64 `json:"seed"`
	// StartTime and EndTime bound the play window, in microseconds.
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
	Active    bool  `json:"active"`
	// TotalParticipants and TotalCompletions are hub-side counters;
	// logically absent on participant copies.
	TotalParticipants uint32 `json:"total_participants"`
	TotalCompletions  uint32 `json:"total_completions"`
}

// InWindow reports whether nowMicros falls inside the play window.
// Window expiry is checked by comparison, never by scheduled cancellation.
func (t *Tournament) InWindow(nowMicros int64) bool {
	return nowMicros >= t.StartTime && nowMicros <= t.EndTime
}

// Stats aggregates leaderboard-wide numbers for a tournament, computed on
// demand from the entries rather than stored.
type Stats struct {
	TournamentID     uint64 `json:"tournament_id"`
	TotalPlayers     uint32 `json:"total_players"`
	TotalCompletions uint32 `json:"total_completions"`
	AverageScore     uint64 `json:"average_score"`
	BestScore        uint64 `json:"best_score"`
	IsActive         bool   `json:"is_active"`
}
