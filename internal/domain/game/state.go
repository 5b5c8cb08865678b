// Package game tracks one participant's board evolution against a bound
// puzzle: placements, penalties, completion, and live scoring.
package game

import (
	"github.com/okian/gridarena/internal/domain/sudoku"
)

// State is a participant's game for the active tournament. Created lazily
// on the first move and discarded when a new tournament starts.
type State struct {
	// Board is the current grid (givens plus player placements).
	Board sudoku.Grid `json:"board"`
	// GivenMask marks the cells seeded from the puzzle; those never change.
	GivenMask [9][9]bool `json:"given_mask"`
	// PenaltyCount counts invalid placements so far.
	PenaltyCount uint32 `json:"penalty_count"`
	// MoveCount counts all recorded placements, valid or not.
	MoveCount uint32 `json:"move_count"`
	// StartTime is the tournament start, in microseconds.
	StartTime int64 `json:"start_time"`
	// Completed is terminal for the tournament.
	Completed bool `json:"completed"`
	// CompletionTime is set once Completed flips, in microseconds.
	CompletionTime int64 `json:"completion_time,omitempty"`
	// Score is the final score; 0 until completion.
	Score uint64 `json:"score"`
}

// NewState binds a fresh game to a puzzle grid.
func NewState(puzzle *sudoku.Grid, startTime int64) *State {
	return &State{
		Board:     *puzzle,
		GivenMask: puzzle.GivenMask(),
		StartTime: startTime,
	}
}

// PlaceResult reports the effect of a single placement.
type PlaceResult struct {
	Valid     bool
	Completed bool
}

// Place records a placement at (row, col). Invalid-per-rules placements
// increment the penalty count but are still written to the board: human
// errors are recorded, not rejected. Completion is checked against solution
// after the write.
//
// The caller is responsible for the outer rejection ladder (tournament
// window, registration, range); Place enforces only the board-local rules.
func (s *State) Place(row, col int, value uint8, solution *sudoku.Grid, nowMicros int64) (PlaceResult, error) {
	if s.Completed {
		return PlaceResult{}, ErrBoardCompleted
	}
	if !sudoku.InRange(row, col) || value < 1 || value > 9 {
		return PlaceResult{}, ErrOutOfRange
	}
	if s.GivenMask[row][col] {
		return PlaceResult{}, ErrGivenCell
	}

	valid := sudoku.ValidatePlacement(&s.Board, row, col, value)
	if !valid {
		s.PenaltyCount++
	}
	s.Board[row][col] = value
	s.MoveCount++

	if s.Board.Complete(solution) {
		s.Completed = true
		s.CompletionTime = nowMicros
		s.Score = Score(s.StartTime, nowMicros, s.PenaltyCount)
		return PlaceResult{Valid: valid, Completed: true}, nil
	}
	return PlaceResult{Valid: valid}, nil
}

// Clear resets a previously placed cell to blank. Givens and completed
// boards are rejected. Clearing has no penalty effect.
func (s *State) Clear(row, col int) error {
	if s.Completed {
		return ErrBoardCompleted
	}
	if !sudoku.InRange(row, col) {
		return ErrOutOfRange
	}
	if s.GivenMask[row][col] {
		return ErrGivenCell
	}
	s.Board[row][col] = 0
	return nil
}
