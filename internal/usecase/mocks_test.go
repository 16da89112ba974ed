package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
	"github.com/stretchr/testify/mock"
)

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

type mockBot struct {
	mock.Mock
}

func (that *mockBot) MakeTurn(game *entity.Game) (tictactoe.Action, error) {
	args := that.Called(game)

	action, _ := args.Get(0).(tictactoe.Action)
	if err := args.Error(1); err != nil {
		return action, err
	}

	if err := game.MakeTurn(game.BotMark, action); err != nil {
		return action, err
	}

	return action, nil
}
