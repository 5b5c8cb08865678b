package sudoku

import (
	"math/rand"
)

// cellsToRemove is the number of cells blanked from the solved grid to form
// the puzzle. 46 removed leaves ~35 givens: challenging but solvable
// tournament difficulty.
const cellsToRemove = 46

// Generate builds a full puzzle + solution from a deterministic seed.
//
// The algorithm:
//  1. Fill a complete valid 9x9 grid via backtracking with shuffled candidates.
//  2. Remove cellsToRemove cells symmetrically to create the puzzle.
//
// The same seed always produces the same Board. Returns ErrGeneration only
// if the backtracking fill fails.
func Generate(seed uint64) (*Board, error) {
	rng := rand.New(rand.NewSource(int64(seed))) //nolint:gosec // deterministic generation is the point
	var grid Grid

	if !fillGrid(&grid, rng) {
		return nil, ErrGeneration
	}

	board := &Board{Puzzle: grid, Solution: grid}
	removeCells(&board.Puzzle, rng)
	return board, nil
}

// fillGrid fills the entire grid with valid numbers using randomized
// backtracking over row-major empty cells.
func fillGrid(grid *Grid, rng *rand.Rand) bool {
	row, col, ok := findEmpty(grid)
	if !ok {
		// No empty cell: grid is complete.
		return true
	}

	candidates := []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, val := range candidates {
		if isSafe(grid, row, col, val) {
			grid[row][col] = val
			if fillGrid(grid, rng) {
				return true
			}
			grid[row][col] = 0
		}
	}
	return false
}

// findEmpty locates the first empty cell, scanning row by row.
func findEmpty(grid *Grid) (int, int, bool) {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if grid[r][c] == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// isSafe reports whether val can be placed at (row, col) without duplicating
// a value in the row, column, or 3x3 box.
func isSafe(grid *Grid, row, col int, val uint8) bool {
	for c := 0; c < 9; c++ {
		if grid[row][c] == val {
			return false
		}
	}
	for r := 0; r < 9; r++ {
		if grid[r][col] == val {
			return false
		}
	}
	boxR, boxC := (row/3)*3, (col/3)*3
	for r := boxR; r < boxR+3; r++ {
		for c := boxC; c < boxC+3; c++ {
			if grid[r][c] == val {
				return false
			}
		}
	}
	return true
}

// removeCells blanks cells from a completed grid to create the puzzle,
// using point-reflection symmetry: removing (r, c) also removes (8-r, 8-c)
// when that slot is still filled. Total removals are capped at cellsToRemove.
func removeCells(grid *Grid, rng *rand.Rand) {
	positions := make([][2]int, 0, 81)
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			positions = append(positions, [2]int{r, c})
		}
	}
	rng.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	removed := 0
	for _, pos := range positions {
		if removed >= cellsToRemove {
			break
		}
		r, c := pos[0], pos[1]
		if grid[r][c] == 0 {
			continue
		}
		grid[r][c] = 0
		removed++

		symR, symC := 8-r, 8-c
		if removed < cellsToRemove && grid[symR][symC] != 0 && (symR != r || symC != c) {
			grid[symR][symC] = 0
			removed++
		}
	}
}
