// Package leaderboard defines the hub-side ranking entry, its deterministic
// total order, and the suspicious-pace heuristic.
package leaderboard

// Entry is one participant's row in the current tournament's leaderboard.
// Held authoritatively on the hub; participants only see snapshots.
type Entry struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	// Score is exact once Completed, otherwise a live estimate.
	Score uint64 `json:"score"`
	// CompletionTime is 0 while the entry is in progress.
	CompletionTime int64  `json:"completion_time"`
	PenaltyCount   uint32 `json:"penalty_count"`
	MoveCount      uint32 `json:"move_count"`
	Completed      bool   `json:"completed"`
	FirstMoveTime  int64  `json:"first_move_time"`
	LastMoveTime   int64  `json:"last_move_time"`
	// Suspicious is a pace heuristic flag; once set it is never cleared.
	Suspicious bool `json:"is_suspicious"`
}

// Less reports whether a ranks strictly before b. The ordering is a
// deterministic total order so repeated reads of unchanged state return
// identical sequences:
//
//   - completed entries before in-progress ones
//   - completed: score desc, then earlier completion time
//   - in progress: estimated score desc, then fewer penalties, then more
//     moves made (rewards visible activity when scores tie)
//   - final tiebreak: participant ID asc
func Less(a, b *Entry) bool {
	if a.Completed != b.Completed {
		return a.Completed
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Completed {
		if a.CompletionTime != b.CompletionTime {
			return a.CompletionTime < b.CompletionTime
		}
	} else {
		if a.PenaltyCount != b.PenaltyCount {
			return a.PenaltyCount < b.PenaltyCount
		}
		if a.MoveCount != b.MoveCount {
			return a.MoveCount > b.MoveCount
		}
	}
	return a.ParticipantID < b.ParticipantID
}
