package sudoku

// Verification scoring: a flat deduction per penalty from a fixed ceiling.
// The replay path deliberately ignores elapsed time, unlike live scoring;
// verification has no trustworthy wall clock to charge time against.
const (
	verifyScoreCeiling  = 10_000
	verifyPenaltyWeight = 200
)

// VerifyResult reports the outcome of a deterministic game replay.
type VerifyResult struct {
	Valid         bool   `json:"valid"`
	TotalMoves    uint32 `json:"total_moves"`
	PenaltyCount  uint32 `json:"penalty_count"`
	BoardComplete bool   `json:"board_complete"`
	FinalScore    uint64 `json:"final_score"`
}

// Verify replays a full game: regenerate the puzzle from seed, apply each
// move in order against a fresh board, and report the outcome.
//
// Out-of-range moves and attempts to overwrite a given cell count as a
// penalty and are skipped. All other moves are written to the board; a
// placement that breaks Sudoku rules also counts as a penalty but is still
// recorded, for replay fidelity with live play.
func Verify(seed uint64, moves []Move) VerifyResult {
	board, err := Generate(seed)
	if err != nil {
		return VerifyResult{}
	}

	grid := board.Puzzle
	givens := board.Puzzle.GivenMask()
	var penalties uint32

	for _, m := range moves {
		if !InRange(m.Row, m.Col) || m.Value < 1 || m.Value > 9 {
			penalties++
			continue
		}
		if givens[m.Row][m.Col] {
			penalties++
			continue
		}
		if !ValidatePlacement(&grid, m.Row, m.Col, m.Value) {
			penalties++
		}
		grid[m.Row][m.Col] = m.Value
	}

	complete := grid.Complete(&board.Solution)
	var score uint64
	if complete {
		deduction := uint64(penalties) * verifyPenaltyWeight
		if deduction < verifyScoreCeiling {
			score = verifyScoreCeiling - deduction
		}
	}

	return VerifyResult{
		Valid:         true,
		TotalMoves:    uint32(len(moves)),
		PenaltyCount:  penalties,
		BoardComplete: complete,
		FinalScore:    score,
	}
}
