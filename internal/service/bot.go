package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var (
	ErrNotBotTurn       = errors.New("it's not the bot's turn")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) (tictactoe.Action, error)
}

type searcher interface {
	Evaluate(board tictactoe.Board) (tictactoe.Evaluation, error)
}

type botService struct {
	logger   *slog.Logger
	searcher searcher
}

func NewBotService(logger *slog.Logger, searcher searcher) BotService {
	return &botService{
		logger:   logger.With("component", "bot"),
		searcher: searcher,
	}
}

// MakeTurn - plays the minimax move for the bot mark and returns it.
func (that *botService) MakeTurn(game *entity.Game) (tictactoe.Action, error) {
	if !game.IsBotTurn() {
		return tictactoe.Action{}, ErrNotBotTurn
	}

	eval, err := that.searcher.Evaluate(game.Board)
	if err != nil {
		return tictactoe.Action{}, fmt.Errorf("bot failed to search: %w", err)
	}

	if !eval.Found {
		return tictactoe.Action{}, ErrNoAvailableMoves
	}

	if err = game.MakeTurn(game.BotMark, eval.Action); err != nil {
		return tictactoe.Action{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logger.Debug("bot made turn",
		"game_id", game.ID, "action", eval.Action.String(), "value", eval.Value, "nodes", eval.Nodes)

	return eval.Action, nil
}
