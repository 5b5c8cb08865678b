package sudoku

// ValidatePlacement reports whether placing value at (row, col) is legal per
// Sudoku rules.
//
// Checks:
//   - value is 1..9
//   - row and col are 0..8
//   - no duplicate in the same row, column, or 3x3 box
//
// It does NOT check whether the cell is a given; the caller must do that.
func ValidatePlacement(board *Grid, row, col int, value uint8) bool {
	if value < 1 || value > 9 || !InRange(row, col) {
		return false
	}

	for c := 0; c < 9; c++ {
		if c != col && board[row][c] == value {
			return false
		}
	}

	for r := 0; r < 9; r++ {
		if r != row && board[r][col] == value {
			return false
		}
	}

	boxR, boxC := (row/3)*3, (col/3)*3
	for r := boxR; r < boxR+3; r++ {
		for c := boxC; c < boxC+3; c++ {
			if (r != row || c != col) && board[r][c] == value {
				return false
			}
		}
	}

	return true
}
