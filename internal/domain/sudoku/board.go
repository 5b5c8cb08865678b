// Package sudoku implements the deterministic puzzle engine: seeded
// generation, placement validation, and full-game replay verification.
//
// Every node regenerates the tournament puzzle locally from the broadcast
// seed, so generation must be byte-identical for the same seed on every
// node. The solution grid is never exposed through any query surface.
package sudoku

// Grid is a 9x9 board of digits. 0 means an empty cell.
type Grid [9][9]uint8

// Board holds a generated puzzle and its solution.
type Board struct {
	// Puzzle is the playable grid (0 = empty, 1-9 = given value).
	Puzzle Grid
	// Solution is the complete solved grid.
	Solution Grid
}

// Move is one (row, col, value) placement in a replay.
type Move struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Value uint8 `json:"value"`
}

// Complete reports whether g matches solution in every cell.
func (g *Grid) Complete(solution *Grid) bool {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if g[r][c] != solution[r][c] {
				return false
			}
		}
	}
	return true
}

// GivenMask derives the immutable-cell mask from a puzzle grid.
func (g *Grid) GivenMask() [9][9]bool {
	var mask [9][9]bool
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			mask[r][c] = g[r][c] != 0
		}
	}
	return mask
}

// Rows returns the grid as a slice-of-slices, for JSON projections.
func (g *Grid) Rows() [][]uint8 {
	rows := make([][]uint8, 9)
	for r := 0; r < 9; r++ {
		rows[r] = make([]uint8, 9)
		copy(rows[r], g[r][:])
	}
	return rows
}

// InRange reports whether (row, col) addresses a cell on the grid.
func InRange(row, col int) bool {
	return row >= 0 && row <= 8 && col >= 0 && col <= 8
}
