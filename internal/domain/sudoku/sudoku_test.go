package sudoku_test

import (
	"testing"

	sudoku "github.com/okian/gridarena/internal/domain/sudoku"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given the deterministic puzzle generator", t, func() {
		Convey("When generating twice from the same seed", func() {
			b1, err1 := sudoku.Generate(42)
			b2, err2 := sudoku.Generate(42)

			Convey("Then both boards should be identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(b1.Puzzle, ShouldResemble, b2.Puzzle)
				So(b1.Solution, ShouldResemble, b2.Solution)
			})
		})

		Convey("When generating from different seeds", func() {
			b1, err1 := sudoku.Generate(1)
			b2, err2 := sudoku.Generate(2)

			Convey("Then the puzzles should differ", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(b1.Puzzle, ShouldNotResemble, b2.Puzzle)
			})
		})

		Convey("When inspecting a generated solution", func() {
			board, err := sudoku.Generate(12345)
			So(err, ShouldBeNil)

			Convey("Then every row should be a permutation of 1-9", func() {
				for r := 0; r < 9; r++ {
					var seen [10]bool
					for c := 0; c < 9; c++ {
						v := board.Solution[r][c]
						So(v, ShouldBeBetweenOrEqual, 1, 9)
						So(seen[v], ShouldBeFalse)
						seen[v] = true
					}
				}
			})

			Convey("And every column should be a permutation of 1-9", func() {
				for c := 0; c < 9; c++ {
					var seen [10]bool
					for r := 0; r < 9; r++ {
						v := board.Solution[r][c]
						So(seen[v], ShouldBeFalse)
						seen[v] = true
					}
				}
			})

			Convey("And every 3x3 box should be a permutation of 1-9", func() {
				for boxR := 0; boxR < 9; boxR += 3 {
					for boxC := 0; boxC < 9; boxC += 3 {
						var seen [10]bool
						for r := boxR; r < boxR+3; r++ {
							for c := boxC; c < boxC+3; c++ {
								v := board.Solution[r][c]
								So(seen[v], ShouldBeFalse)
								seen[v] = true
							}
						}
					}
				}
			})
		})

		Convey("When inspecting a generated puzzle", func() {
			board, err := sudoku.Generate(999)
			So(err, ShouldBeNil)

			givens, blanks := 0, 0
			for r := 0; r < 9; r++ {
				for c := 0; c < 9; c++ {
					if board.Puzzle[r][c] == 0 {
						blanks++
					} else {
						givens++
					}
				}
			}

			Convey("Then it should have both givens and blanks", func() {
				So(givens, ShouldBeGreaterThan, 0)
				So(blanks, ShouldBeGreaterThan, 0)
			})

			Convey("And at least 30 cells should be blank", func() {
				// Symmetric removal can land on an already-removed cell,
				// so the blank count may fall a little short of 46.
				So(blanks, ShouldBeGreaterThanOrEqualTo, 30)
			})

			Convey("And every given should match the solution", func() {
				for r := 0; r < 9; r++ {
					for c := 0; c < 9; c++ {
						if board.Puzzle[r][c] != 0 {
							So(board.Puzzle[r][c], ShouldEqual, board.Solution[r][c])
						}
					}
				}
			})
		})
	})
}

func TestValidatePlacement(t *testing.T) {
	Convey("Given a freshly generated board", t, func() {
		board, err := sudoku.Generate(7777)
		So(err, ShouldBeNil)

		grid := board.Puzzle
		givens := board.Puzzle.GivenMask()

		Convey("When placing the solution value into any blank cell", func() {
			Convey("Then the placement should always be accepted", func() {
				for r := 0; r < 9; r++ {
					for c := 0; c < 9; c++ {
						if !givens[r][c] {
							So(sudoku.ValidatePlacement(&grid, r, c, board.Solution[r][c]), ShouldBeTrue)
						}
					}
				}
			})
		})

		Convey("When placing a value that already appears in the same row", func() {
			// Find a blank cell and a given in its row.
			found := false
			for r := 0; r < 9 && !found; r++ {
				var blankCol = -1
				var dup uint8
				for c := 0; c < 9; c++ {
					if grid[r][c] == 0 && blankCol == -1 {
						blankCol = c
					} else if grid[r][c] != 0 {
						dup = grid[r][c]
					}
				}
				if blankCol >= 0 && dup != 0 {
					found = true
					So(sudoku.ValidatePlacement(&grid, r, blankCol, dup), ShouldBeFalse)
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("When the coordinates or value are out of range", func() {
			So(sudoku.ValidatePlacement(&grid, -1, 0, 5), ShouldBeFalse)
			So(sudoku.ValidatePlacement(&grid, 0, 9, 5), ShouldBeFalse)
			So(sudoku.ValidatePlacement(&grid, 0, 0, 0), ShouldBeFalse)
			So(sudoku.ValidatePlacement(&grid, 0, 0, 10), ShouldBeFalse)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a seed and the full solution as a move list", t, func() {
		const seed = 55555
		board, err := sudoku.Generate(seed)
		So(err, ShouldBeNil)

		givens := board.Puzzle.GivenMask()
		var moves []sudoku.Move
		for r := 0; r < 9; r++ {
			for c := 0; c < 9; c++ {
				if !givens[r][c] {
					moves = append(moves, sudoku.Move{Row: r, Col: c, Value: board.Solution[r][c]})
				}
			}
		}

		Convey("When replaying the moves", func() {
			result := sudoku.Verify(seed, moves)

			Convey("Then the board should complete with no penalties", func() {
				So(result.Valid, ShouldBeTrue)
				So(result.BoardComplete, ShouldBeTrue)
				So(result.PenaltyCount, ShouldEqual, 0)
				So(result.TotalMoves, ShouldEqual, uint32(len(moves)))
				So(result.FinalScore, ShouldEqual, 10_000)
			})
		})

		Convey("When the replay contains out-of-range moves", func() {
			bad := append([]sudoku.Move{{Row: 9, Col: 0, Value: 1}, {Row: 0, Col: 0, Value: 12}}, moves...)
			result := sudoku.Verify(seed, bad)

			Convey("Then each bad move costs a penalty and is skipped", func() {
				So(result.BoardComplete, ShouldBeTrue)
				So(result.PenaltyCount, ShouldEqual, 2)
				So(result.FinalScore, ShouldEqual, 10_000-2*200)
			})
		})

		Convey("When the replay overwrites a given cell", func() {
			var givenMove sudoku.Move
			for r := 0; r < 9; r++ {
				for c := 0; c < 9; c++ {
					if givens[r][c] {
						givenMove = sudoku.Move{Row: r, Col: c, Value: 1}
					}
				}
			}
			result := sudoku.Verify(seed, append([]sudoku.Move{givenMove}, moves...))

			Convey("Then it costs a penalty without touching the board", func() {
				So(result.BoardComplete, ShouldBeTrue)
				So(result.PenaltyCount, ShouldEqual, 1)
			})
		})

		Convey("When the replay is incomplete", func() {
			result := sudoku.Verify(seed, moves[:len(moves)-1])

			Convey("Then the final score is zero", func() {
				So(result.BoardComplete, ShouldBeFalse)
				So(result.FinalScore, ShouldEqual, 0)
			})
		})

		Convey("When penalties exceed the score ceiling", func() {
			// 51 duplicate out-of-range moves ahead of a full solve.
			var flood []sudoku.Move
			for i := 0; i < 51; i++ {
				flood = append(flood, sudoku.Move{Row: 9, Col: 9, Value: 1})
			}
			result := sudoku.Verify(seed, append(flood, moves...))

			Convey("Then the score floors at zero instead of wrapping", func() {
				So(result.BoardComplete, ShouldBeTrue)
				So(result.FinalScore, ShouldEqual, 0)
			})
		})
	})
}
