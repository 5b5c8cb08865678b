package game

// Live scoring weights. The hub's continuously updated estimate and the
// final completion score use the same formula so that hub and participant
// agree when computed independently.
const (
	scoreCeiling  = 10_000
	timeWeight    = 2   // points lost per elapsed second
	penaltyWeight = 100 // points lost per invalid placement
)

// Score computes the tournament score for a game spanning
// [startMicros, endMicros] with the given penalty count:
//
//	score = max(0, 10000 - 2*elapsed_seconds - 100*penalties)
//
// All arithmetic saturates: pathological elapsed times or penalty counts
// floor the score at zero rather than wrapping.
func Score(startMicros, endMicros int64, penalties uint32) uint64 {
	elapsed := endMicros - startMicros
	if elapsed < 0 {
		elapsed = 0
	}
	secs := uint64(elapsed) / 1_000_000
	deduction := satAdd(satMul(secs, timeWeight), satMul(uint64(penalties), penaltyWeight))
	if deduction >= scoreCeiling {
		return 0
	}
	return scoreCeiling - deduction
}

func satAdd(a, b uint64) uint64 {
	if a+b < a {
		return ^uint64(0)
	}
	return a + b
}

func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > ^uint64(0)/b {
		return ^uint64(0)
	}
	return a * b
}
