package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

const maxBodyBytes = 1 << 12

var errBadRequest = errors.New("malformed request body")

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	BestAction(w http.ResponseWriter, r *http.Request)
	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)
}

type uGame interface {
	CreateGame(ctx context.Context, humanMark tictactoe.Cell) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, action tictactoe.Action) (*entity.Game, error)
	Suggest(board tictactoe.Board) (tictactoe.Evaluation, error)
}

type handlers struct {
	logger *slog.Logger
	uGame  uGame
}

func NewHandlers(logger *slog.Logger, uGame uGame) Handlers {
	return &handlers{
		logger: logger.With("component", "handlers"),
		uGame:  uGame,
	}
}

type bestActionRequest struct {
	Board [][]tictactoe.Cell `json:"board"`
}

type bestActionResponse struct {
	Action  *tictactoe.Action `json:"action"`
	Value   int               `json:"value"`
	Nodes   int               `json:"nodes"`
	Outcome string            `json:"outcome"`
}

type createGameRequest struct {
	Mark string `json:"mark"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// BestAction - evaluates a caller supplied board; action is null on a finished board.
func (that *handlers) BestAction(w http.ResponseWriter, r *http.Request) {
	var req bestActionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	board, err := tictactoe.BoardFromRows(req.Board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	eval, err := that.uGame.Suggest(board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	resp := bestActionResponse{
		Value:   eval.Value,
		Nodes:   eval.Nodes,
		Outcome: board.Outcome().String(),
	}
	if eval.Found {
		resp.Action = &eval.Action
	}

	that.writeJSON(w, http.StatusOK, resp)
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	mark, err := tictactoe.ParseCell(req.Mark)
	if err != nil {
		that.writeError(w, err)
		return
	}

	game, err := that.uGame.CreateGame(r.Context(), mark)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var action tictactoe.Action
	if err := decodeJSON(w, r, &action); err != nil {
		that.writeError(w, err)
		return
	}

	game, err := that.uGame.MakeTurn(r.Context(), r.PathValue("id"), action)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, apperror.ErrInvalidState) {
			return err
		}

		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, apperror.ErrInvalidState),
		errors.Is(err, apperror.ErrInvalidAction),
		errors.Is(err, usecase.ErrInvalidMark):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})

		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("could not write response", "error", err)
	}
}
