package apperror

import "errors"

// ErrIllegalMove is the single error kind of the rules engine. The concrete
// reason is wrapped alongside it, so both can be matched with errors.Is.
var ErrIllegalMove = errors.New("illegal move")

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrBoardClosed  = errors.New("sub-board is already decided")
	ErrWrongBoard   = errors.New("move must be played in the active sub-board")
)

var ErrNoActiveGames = errors.New("no active games")
