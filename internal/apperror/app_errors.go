package apperror

import "errors"

var (
	ErrInvalidState  = errors.New("invalid board state")
	ErrInvalidAction = errors.New("invalid action")

	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrGameNotFound = errors.New("game not found")
)
