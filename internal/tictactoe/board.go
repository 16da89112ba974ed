package tictactoe

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const Size = 3

// WinCombos lists rows, then columns, then diagonals.
var WinCombos = [8][3]Action{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a value type: assigning or passing it copies every cell.
type Board [Size][Size]Cell

// NewBoard - returns the empty starting board.
func NewBoard() Board {
	return Board{}
}

// BoardFromRows - builds a board from a caller supplied grid.
func BoardFromRows(rows [][]Cell) (Board, error) {
	var board Board

	if rows == nil {
		return board, fmt.Errorf("%w: no board supplied", apperror.ErrInvalidState)
	}

	if len(rows) != Size {
		return board, fmt.Errorf("%w: expected %d rows, got %d", apperror.ErrInvalidState, Size, len(rows))
	}

	for i, row := range rows {
		if len(row) != Size {
			return board, fmt.Errorf("%w: row %d has %d cells", apperror.ErrInvalidState, i, len(row))
		}

		copy(board[i][:], row)
	}

	return board, nil
}

func (that Board) at(a Action) Cell {
	return that[a.Row][a.Col]
}

func (that Board) counts() (first, second int) {
	for _, row := range that {
		for _, cell := range row {
			switch cell {
			case First:
				first++
			case Second:
				second++
			}
		}
	}

	return first, second
}

// PlayerToMove - First always opens, so Second is to move only when First has more marks.
func (that Board) PlayerToMove() Cell {
	first, second := that.counts()
	if first > second {
		return Second
	}

	return First
}

// Validate - checks that the board could have been reached from the empty board by turn order.
func (that Board) Validate() error {
	for i, row := range that {
		for j, cell := range row {
			if !cell.valid() {
				return fmt.Errorf("%w: unknown cell value %d at (%d,%d)", apperror.ErrInvalidState, uint8(cell), i, j)
			}
		}
	}

	first, second := that.counts()
	if diff := first - second; diff != 0 && diff != 1 {
		return fmt.Errorf("%w: %d first marks against %d second marks", apperror.ErrInvalidState, first, second)
	}

	return nil
}

// LegalActions - returns every empty cell in row-major order.
func (that Board) LegalActions() []Action {
	actions := make([]Action, 0, Size*Size)

	for i, row := range that {
		for j, cell := range row {
			if cell == Empty {
				actions = append(actions, Action{Row: i, Col: j})
			}
		}
	}

	return actions
}

// Apply - returns a new board with the mark of the player to move placed at the action.
func (that Board) Apply(action Action) (Board, error) {
	if !action.inBounds() {
		return that, fmt.Errorf("%w: %s is outside the grid", apperror.ErrInvalidAction, action)
	}

	if that.at(action) != Empty {
		return that, fmt.Errorf("%w: cell %s is already occupied", apperror.ErrInvalidAction, action)
	}

	return that.place(action), nil
}

// place - transition without validation, callers pass actions from LegalActions.
func (that Board) place(action Action) Board {
	next := that
	next[action.Row][action.Col] = that.PlayerToMove()

	return next
}

// Winner - returns the owner of the first complete line, or Empty.
func (that Board) Winner() Cell {
	for _, combo := range WinCombos {
		a, b, c := that.at(combo[0]), that.at(combo[1]), that.at(combo[2])
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

func (that Board) full() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// IsTerminal - the game is over once a line is complete or no empty cell remains.
func (that Board) IsTerminal() bool {
	return that.Winner() != Empty || that.full()
}

// Utility - returns +1 if First won, -1 if Second won and 0 for a draw.
func (that Board) Utility() (int, error) {
	if !that.IsTerminal() {
		return 0, fmt.Errorf("%w: utility of an unfinished board", apperror.ErrInvalidState)
	}

	return that.score(), nil
}

func (that Board) score() int {
	switch that.Winner() {
	case First:
		return 1
	case Second:
		return -1
	default:
		return 0
	}
}

func (that Board) Outcome() Outcome {
	switch that.Winner() {
	case First:
		return FirstWins
	case Second:
		return SecondWins
	}

	if that.full() {
		return Draw
	}

	return InProgress
}

// Key - base-3 encoding of the board, unique per position.
func (that Board) Key() uint32 {
	var key uint32
	for _, row := range that {
		for _, cell := range row {
			key = key*3 + uint32(cell)
		}
	}

	return key
}

func (that Board) String() string {
	var sb strings.Builder

	for i, row := range that {
		if i > 0 {
			sb.WriteString("\n")
		}

		for j, cell := range row {
			if j > 0 {
				sb.WriteString("|")
			}

			if cell == Empty {
				sb.WriteString(" ")
			} else {
				sb.WriteString(cell.String())
			}
		}
	}

	return sb.String()
}
