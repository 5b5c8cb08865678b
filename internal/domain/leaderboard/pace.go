package leaderboard

const (
	// paceCheckMinMoves is the move count from which the pace heuristic
	// starts evaluating.
	paceCheckMinMoves = 5

	// suspiciousPaceSecs is the minimum average seconds per move below
	// which play is flagged as scripted. A heuristic, not a hard block.
	suspiciousPaceSecs = 6
)

// SuspiciousPace reports whether moveCount moves spread over
// [firstMoveMicros, lastMicros] average under the pace threshold.
// Entries with fewer than paceCheckMinMoves moves are never flagged.
func SuspiciousPace(firstMoveMicros, lastMicros int64, moveCount uint32) bool {
	if moveCount < paceCheckMinMoves || firstMoveMicros <= 0 {
		return false
	}
	elapsed := lastMicros - firstMoveMicros
	if elapsed < 0 {
		elapsed = 0
	}
	secs := uint64(elapsed) / 1_000_000
	// N moves span N-1 intervals.
	intervals := uint64(moveCount - 1)
	return secs/intervals < suspiciousPaceSecs
}
