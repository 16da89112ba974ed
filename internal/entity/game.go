package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

// Game is one match between a human and the minimax bot.
type Game struct {
	ID      string          `json:"id"`
	Board   tictactoe.Board `json:"board"`
	Winner  string          `json:"winner"`
	Status  string          `json:"status"`
	Turn    tictactoe.Cell  `json:"player_turn"`
	BotMark tictactoe.Cell  `json:"bot_mark"`
}

func NewGame(id string, botMark tictactoe.Cell) *Game {
	return &Game{
		ID:      id,
		Board:   tictactoe.NewBoard(),
		Turn:    tictactoe.First,
		Status:  StatusOngoing,
		BotMark: botMark,
	}
}

// HumanMark - the human always plays the mark the bot does not.
func (that *Game) HumanMark() tictactoe.Cell {
	return that.BotMark.Opponent()
}

func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn == that.BotMark
}

// UpdateGameState - derives status, winner and turn from the board.
func (that *Game) UpdateGameState() {
	switch outcome := that.Board.Outcome(); outcome {
	// one player wins
	case tictactoe.FirstWins, tictactoe.SecondWins:
		that.Winner = that.Board.Winner().String()
		that.Status = StatusFinished
		that.Turn = tictactoe.Empty
	// tie
	case tictactoe.Draw:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = tictactoe.Empty
	// game continue
	default:
		that.Status = StatusOngoing
		that.Turn = that.Board.PlayerToMove()
	}
}

// MakeTurn - applies the action for the given mark, the board itself decides whose mark is placed.
func (that *Game) MakeTurn(mark tictactoe.Cell, action tictactoe.Action) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	board, err := that.Board.Apply(action)
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", action, err)
	}

	that.Board = board
	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: unknown game status %q", apperror.ErrInvalidState, that.Status)
	}
}
