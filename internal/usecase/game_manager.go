package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var ErrInvalidMark = errors.New("mark must be X or O")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type botService interface {
	MakeTurn(game *entity.Game) (tictactoe.Action, error)
}

type searcher interface {
	Evaluate(board tictactoe.Board) (tictactoe.Evaluation, error)
}

type GameManager struct {
	logger *slog.Logger

	gameRepo gameRepo
	bot      botService
	searcher searcher
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, bot botService, searcher searcher) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		bot:      bot,
		searcher: searcher,
	}
}

// CreateGame - starts a game against the bot; if the human plays Second the bot opens right away.
func (that *GameManager) CreateGame(ctx context.Context, humanMark tictactoe.Cell) (*entity.Game, error) {
	if humanMark != tictactoe.First && humanMark != tictactoe.Second {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMark, humanMark.String())
	}

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("error generating game ID: %w", err)
	}

	game := entity.NewGame(gameID, humanMark.Opponent())

	if game.IsBotTurn() {
		if _, err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("failed to make opening turn: %w", err)
		}
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "game_id", game.ID, "human_mark", humanMark.String())

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed get game by id: %w", err)
	}

	return game, nil
}

// MakeTurn - applies the human action, lets the bot answer and stores the result.
func (that *GameManager) MakeTurn(ctx context.Context, id string, action tictactoe.Action) (*entity.Game, error) {
	log := that.logger.With("game_id", id)

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed get game by id: %w", err)
	}

	if err = game.MakeTurn(game.HumanMark(), action); err != nil {
		return game, fmt.Errorf("failed make turn: %w", err)
	}

	if game.IsBotTurn() {
		if _, err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("failed make bot turn: %w", err)
		}
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
	}

	return game, nil
}

// Suggest - evaluates a board without touching any stored game.
func (that *GameManager) Suggest(board tictactoe.Board) (tictactoe.Evaluation, error) {
	eval, err := that.searcher.Evaluate(board)
	if err != nil {
		return tictactoe.Evaluation{}, fmt.Errorf("failed to evaluate board: %w", err)
	}

	return eval, nil
}
