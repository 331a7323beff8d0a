package apperror

import "errors"

var (
	ErrInvalidCoordinate = errors.New("coordinate is outside the board")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrSessionNotStarted = errors.New("session is not started")
	ErrGameFinished      = errors.New("game is already finished")
)
