package game

import "errors"

// Sentinel kinds for game state errors. All are validation failures: they
// report a rejected move and leave the state untouched.
var (
	ErrBoardCompleted = errors.New("board already completed")
	ErrOutOfRange     = errors.New("invalid cell coordinates or value")
	ErrGivenCell      = errors.New("cannot modify a given cell")
)
