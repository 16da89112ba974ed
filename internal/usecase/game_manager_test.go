package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	e = tictactoe.Empty
	x = tictactoe.First
	o = tictactoe.Second
)

var errRedisDown = errors.New("redis down")

func newTestManager(repo gameRepo, bot botService) *GameManager {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewGameManager(logger, repo, bot, tictactoe.NewSearcher(tictactoe.WithMemo()))
}

func newRealBot() botService {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return service.NewBotService(logger, tictactoe.NewSearcher(tictactoe.WithMemo()))
}

func TestGameManager_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Human plays First and the board stays empty", func(t *testing.T) {
		// Given: a repository that accepts the game and a bot that must not be called
		repo := &mockGameRepo{}
		bot := &mockBot{}
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(nil).Once()

		// When: creating a game as First
		game, err := newTestManager(repo, bot).CreateGame(ctx, x)

		// Then: the game waits for the human
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, o, game.BotMark)
		assert.Equal(t, x, game.Turn)
		assert.Equal(t, tictactoe.NewBoard(), game.Board)
		repo.AssertExpectations(t)
		bot.AssertNotCalled(t, "MakeTurn", mock.Anything)
	})

	t.Run("Human plays Second and the bot opens", func(t *testing.T) {
		// Given: the real minimax bot
		repo := &mockGameRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(nil).Once()

		// When: creating a game as Second
		game, err := newTestManager(repo, newRealBot()).CreateGame(ctx, o)

		// Then: the bot has played the first corner and the human is to move
		require.NoError(t, err)
		assert.Equal(t, x, game.BotMark)
		assert.Equal(t, x, game.Board[0][0])
		assert.Equal(t, o, game.Turn)
		repo.AssertExpectations(t)
	})

	t.Run("Rejects an empty mark", func(t *testing.T) {
		repo := &mockGameRepo{}

		_, err := newTestManager(repo, &mockBot{}).CreateGame(ctx, e)

		require.ErrorIs(t, err, ErrInvalidMark)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Returns error when storage fails", func(t *testing.T) {
		repo := &mockGameRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown).Once()

		_, err := newTestManager(repo, &mockBot{}).CreateGame(ctx, x)

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_GetGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the stored game", func(t *testing.T) {
		stored := entity.NewGame("123", o)
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, "123").Return(stored, nil).Once()

		game, err := newTestManager(repo, &mockBot{}).GetGame(ctx, "123")

		require.NoError(t, err)
		assert.Equal(t, stored, game)
	})

	t.Run("Wraps not found", func(t *testing.T) {
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, "404").Return(nil, apperror.ErrGameNotFound).Once()

		_, err := newTestManager(repo, &mockBot{}).GetGame(ctx, "404")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Human move is answered by the bot", func(t *testing.T) {
		// Given: a stored game where the human plays First
		stored := entity.NewGame("123", o)
		repo := &mockGameRepo{}
		bot := &mockBot{}
		repo.On("GetByID", mock.Anything, "123").Return(stored, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, stored).Return(nil).Once()
		bot.On("MakeTurn", stored).Return(tictactoe.Action{Row: 1, Col: 1}, nil).Once()

		// When: the human plays the corner
		game, err := newTestManager(repo, bot).MakeTurn(ctx, "123", tictactoe.Action{Row: 0, Col: 0})

		// Then: both moves are on the stored board
		require.NoError(t, err)
		expected := tictactoe.Board{
			{x, e, e},
			{e, o, e},
			{e, e, e},
		}
		assert.Equal(t, expected, game.Board)
		assert.Equal(t, x, game.Turn)
		repo.AssertExpectations(t)
		bot.AssertExpectations(t)
	})

	t.Run("Winning human move skips the bot", func(t *testing.T) {
		// Given: the human can complete the top row
		stored := &entity.Game{
			ID: "123",
			Board: tictactoe.Board{
				{x, x, e},
				{o, o, e},
				{e, e, e},
			},
			Status:  entity.StatusOngoing,
			Turn:    x,
			BotMark: o,
		}
		repo := &mockGameRepo{}
		bot := &mockBot{}
		repo.On("GetByID", mock.Anything, "123").Return(stored, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, stored).Return(nil).Once()

		// When: the human completes it
		game, err := newTestManager(repo, bot).MakeTurn(ctx, "123", tictactoe.Action{Row: 0, Col: 2})

		// Then: the game is finished and stored
		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, tictactoe.MarkFirst, game.Winner)
		bot.AssertNotCalled(t, "MakeTurn", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("Occupied cell is rejected and nothing is stored", func(t *testing.T) {
		stored := &entity.Game{
			ID: "123",
			Board: tictactoe.Board{
				{x, e, e},
				{e, o, e},
				{e, e, e},
			},
			Status:  entity.StatusOngoing,
			Turn:    x,
			BotMark: o,
		}
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, "123").Return(stored, nil).Once()

		_, err := newTestManager(repo, &mockBot{}).MakeTurn(ctx, "123", tictactoe.Action{Row: 1, Col: 1})

		require.ErrorIs(t, err, apperror.ErrInvalidAction)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Finished game refuses turns", func(t *testing.T) {
		stored := &entity.Game{
			ID:     "123",
			Status: entity.StatusFinished,
			Winner: entity.PlayerTie,
		}
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, "123").Return(stored, nil).Once()

		_, err := newTestManager(repo, &mockBot{}).MakeTurn(ctx, "123", tictactoe.Action{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Real bot never loses a full game", func(t *testing.T) {
		// Given: an in-memory store behind the mock and the minimax bot
		stored := entity.NewGame("123", o)
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, "123").Return(stored, nil)
		repo.On("CreateOrUpdate", mock.Anything, stored).Return(nil)
		manager := newTestManager(repo, newRealBot())

		// When: the human keeps playing the first free cell
		for !stored.IsFinished() {
			action := stored.Board.LegalActions()[0]
			_, err := manager.MakeTurn(ctx, "123", action)
			require.NoError(t, err)
		}

		// Then: the human did not win
		assert.NotEqual(t, tictactoe.MarkFirst, stored.Winner)
	})
}

func TestGameManager_Suggest(t *testing.T) {
	t.Run("Suggests the winning move", func(t *testing.T) {
		board := tictactoe.Board{
			{x, x, e},
			{o, o, e},
			{e, e, e},
		}

		eval, err := newTestManager(&mockGameRepo{}, &mockBot{}).Suggest(board)

		require.NoError(t, err)
		assert.True(t, eval.Found)
		assert.Equal(t, tictactoe.Action{Row: 0, Col: 2}, eval.Action)
		assert.Equal(t, 1, eval.Value)
	})

	t.Run("Malformed board", func(t *testing.T) {
		board := tictactoe.Board{
			{o, e, e},
			{e, e, e},
			{e, e, e},
		}

		_, err := newTestManager(&mockGameRepo{}, &mockBot{}).Suggest(board)

		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})
}
