package sudoku

import "errors"

// Sentinel kinds for puzzle engine errors.
var (
	// ErrGeneration is returned when the backtracking fill exhausts every
	// candidate at the root. Practically unreachable for a 9x9 grid, but
	// generation failure must be a representable outcome.
	ErrGeneration = errors.New("puzzle generation failed")
)
