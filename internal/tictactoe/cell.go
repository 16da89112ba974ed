package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

// Cell is the content of one grid position. First and Second double as the players.
type Cell uint8

const (
	Empty Cell = iota
	First
	Second
)

const (
	MarkFirst  = "X"
	MarkSecond = "O"
)

func (that Cell) String() string {
	switch that {
	case First:
		return MarkFirst
	case Second:
		return MarkSecond
	case Empty:
		return ""
	default:
		return fmt.Sprintf("Cell(%d)", uint8(that))
	}
}

// Opponent - returns the other player, Empty stays Empty.
func (that Cell) Opponent() Cell {
	switch that {
	case First:
		return Second
	case Second:
		return First
	default:
		return Empty
	}
}

func (that Cell) valid() bool {
	return that <= Second
}

// ParseCell - converts a mark ("X", "O" or "") into a Cell.
func ParseCell(mark string) (Cell, error) {
	switch mark {
	case MarkFirst:
		return First, nil
	case MarkSecond:
		return Second, nil
	case "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidState, mark)
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	if !that.valid() {
		return nil, fmt.Errorf("%w: unknown cell %d", apperror.ErrInvalidState, uint8(that))
	}

	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

// Outcome is derived from a board and never stored.
type Outcome int

const (
	InProgress Outcome = iota
	FirstWins
	SecondWins
	Draw
)

func (that Outcome) String() string {
	switch that {
	case FirstWins:
		return "first_wins"
	case SecondWins:
		return "second_wins"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Action identifies the cell targeted by a move.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Action) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

func (that Action) inBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}
