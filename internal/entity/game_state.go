package entity

import (
	"fmt"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
)

const BoardCount = BoardSize * BoardSize

// Move places a mark on a cell of one sub-board.
type Move struct {
	Board int `json:"board"`
	Row   int `json:"row"`
	Col   int `json:"col"`
}

func (m Move) Cell() Cell {
	return Cell{Row: m.Row, Col: m.Col}
}

func (m Move) String() string {
	return fmt.Sprintf("board %d %s", m.Board, m.Cell())
}

// MetaBoard holds the nine sub-boards in row-major order.
type MetaBoard [BoardCount]SubBoard

// GameState is the full rules state of one game. ApplyMove is its only mutator.
type GameState struct {
	Boards MetaBoard `json:"boards"`
	// Outcomes caches SubBoard.Outcome for every sub-board.
	Outcomes [BoardCount]Outcome `json:"outcomes"`
	Turn     Mark                `json:"turn"`
	// ActiveBoard is nil when the player may move in any open sub-board.
	ActiveBoard *int    `json:"active_board"`
	TurnCount   int     `json:"turn_count"`
	Outcome     Outcome `json:"outcome"`
}

func NewGameState() GameState {
	return GameState{Turn: PlayerX}
}

// ApplyMove validates the move and applies it. Nothing is mutated when an
// error is returned.
func (that *GameState) ApplyMove(move Move, player Mark) error {
	if err := that.validateMove(move, player); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	that.Boards[move.Board][move.Row][move.Col] = player
	that.Outcomes[move.Board] = that.Boards[move.Board].Outcome()
	that.Outcome = that.metaOutcome()

	next := move.Cell().Index()
	if that.Outcomes[next].IsOpen() {
		that.ActiveBoard = &next
	} else {
		that.ActiveBoard = nil
	}

	that.TurnCount++
	that.Turn = player.Opponent()

	return nil
}

func (that *GameState) validateMove(move Move, player Mark) error {
	if !that.Outcome.IsOpen() {
		return apperror.ErrGameFinished
	}

	if move.Board < 0 || move.Board >= BoardCount || !move.Cell().Valid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, move)
	}

	if player != that.Turn {
		return apperror.ErrNotYourTurn
	}

	if !that.Outcomes[move.Board].IsOpen() {
		return fmt.Errorf("%w: board %d is %s", apperror.ErrBoardClosed, move.Board, that.Outcomes[move.Board])
	}

	if that.ActiveBoard != nil && *that.ActiveBoard != move.Board {
		return fmt.Errorf("%w: expected board %d, got %d", apperror.ErrWrongBoard, *that.ActiveBoard, move.Board)
	}

	if that.Boards[move.Board].At(move.Cell()) != EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// LegalBoards returns the sub-boards the current player may move in, ascending.
func (that *GameState) LegalBoards() []int {
	if !that.Outcome.IsOpen() {
		return nil
	}

	if that.ActiveBoard != nil && that.Outcomes[*that.ActiveBoard].IsOpen() {
		return []int{*that.ActiveBoard}
	}

	boards := make([]int, 0, BoardCount)
	for i, outcome := range that.Outcomes {
		if outcome.IsOpen() {
			boards = append(boards, i)
		}
	}

	return boards
}

// IsLegalBoard reports whether board is one of LegalBoards.
func (that *GameState) IsLegalBoard(board int) bool {
	for _, b := range that.LegalBoards() {
		if b == board {
			return true
		}
	}

	return false
}

func (that *GameState) IsFinished() bool {
	return !that.Outcome.IsOpen()
}

// Clone returns a deep copy; ActiveBoard is the only field behind a pointer.
func (that *GameState) Clone() GameState {
	clone := *that
	if that.ActiveBoard != nil {
		active := *that.ActiveBoard
		clone.ActiveBoard = &active
	}

	return clone
}

// metaOutcome treats the sub-board outcomes as the cells of a virtual board.
// Drawn sub-boards count for nobody.
func (that *GameState) metaOutcome() Outcome {
	winner := lineWinner(func(c Cell) Mark {
		return that.Outcomes[c.Index()].Winner()
	})
	if winner != EmptyCell {
		return WonBy(winner)
	}

	for _, outcome := range that.Outcomes {
		if outcome.IsOpen() {
			return OutcomeOpen
		}
	}

	return OutcomeDrawn
}
