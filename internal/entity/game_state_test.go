package entity

import (
	"testing"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestNewGameState(t *testing.T) {
	// Given: a fresh game
	state := NewGameState()

	// Then: X starts, any board may be played and nothing is decided
	assert.Equal(t, PlayerX, state.Turn)
	assert.Nil(t, state.ActiveBoard)
	assert.Zero(t, state.TurnCount)
	assert.Equal(t, OutcomeOpen, state.Outcome)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, state.LegalBoards())
}

func TestGameState_ApplyMove(t *testing.T) {
	t.Run("Successful move sets the cell and hands the turn over", func(t *testing.T) {
		// Given: a new game
		state := NewGameState()

		// When: X plays the centre of the top-left board
		err := state.ApplyMove(Move{Board: 0, Row: 1, Col: 1}, PlayerX)
		require.NoError(t, err)

		// Then: the cell is set, O is to move and O is sent to board 4
		assert.Equal(t, PlayerX, state.Boards[0][1][1])
		assert.Equal(t, PlayerO, state.Turn)
		assert.Equal(t, 1, state.TurnCount)
		require.NotNil(t, state.ActiveBoard)
		assert.Equal(t, 4, *state.ActiveBoard)
		assert.Equal(t, []int{4}, state.LegalBoards())
	})

	t.Run("Centre move of the centre board keeps the opponent on board 4", func(t *testing.T) {
		state := NewGameState()

		require.NoError(t, state.ApplyMove(Move{Board: 4, Row: 1, Col: 1}, PlayerX))

		require.NotNil(t, state.ActiveBoard)
		assert.Equal(t, 4, *state.ActiveBoard)
	})

	t.Run("Target board already decided frees the opponent", func(t *testing.T) {
		// Given: a game where board 4 is already won by O
		state := NewGameState()
		state.Boards[4] = SubBoard{{o, o, o}, {x, x, e}, {e, e, e}}
		state.Outcomes[4] = OutcomeWonO

		// When: X plays a cell that points at board 4
		err := state.ApplyMove(Move{Board: 0, Row: 1, Col: 1}, PlayerX)
		require.NoError(t, err)

		// Then: O may play in any open board
		assert.Nil(t, state.ActiveBoard)
		assert.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, state.LegalBoards())
	})

	t.Run("Same move twice is rejected the second time", func(t *testing.T) {
		// Given: a game where X has played board 0 cell (0,0)
		state := NewGameState()
		move := Move{Board: 0, Row: 0, Col: 0}
		require.NoError(t, state.ApplyMove(move, PlayerX))

		// When: the identical move is submitted again
		err := state.ApplyMove(move, PlayerX)

		// Then: it is an illegal move
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Occupied cell is rejected without mutating state", func(t *testing.T) {
		// Given: O to move in board 0 where (0,0) is taken by X
		state := NewGameState()
		state.Boards[0][0][0] = PlayerX
		state.Turn = PlayerO
		state.ActiveBoard = intPtr(0)
		before := state.Clone()

		// When: O tries to play on the same cell
		err := state.ApplyMove(Move{Board: 0, Row: 0, Col: 0}, PlayerO)

		// Then: ErrCellOccupied is reported and nothing changed
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, state)
	})

	t.Run("Move outside the active board is rejected", func(t *testing.T) {
		state := NewGameState()
		require.NoError(t, state.ApplyMove(Move{Board: 0, Row: 0, Col: 2}, PlayerX))
		before := state.Clone()

		err := state.ApplyMove(Move{Board: 5, Row: 0, Col: 0}, PlayerO)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrWrongBoard)
		assert.Equal(t, before, state)
	})

	t.Run("Move into a decided board is rejected", func(t *testing.T) {
		state := NewGameState()
		state.Boards[2] = SubBoard{{x, x, x}, {o, o, e}, {e, e, e}}
		state.Outcomes[2] = OutcomeWonX

		err := state.ApplyMove(Move{Board: 2, Row: 2, Col: 2}, PlayerX)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrBoardClosed)
	})

	t.Run("Move by the wrong player is rejected", func(t *testing.T) {
		state := NewGameState()

		err := state.ApplyMove(Move{Board: 0, Row: 0, Col: 0}, PlayerO)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Out of range indices are rejected", func(t *testing.T) {
		state := NewGameState()

		for _, move := range []Move{
			{Board: 9, Row: 0, Col: 0},
			{Board: -1, Row: 0, Col: 0},
			{Board: 0, Row: 3, Col: 0},
			{Board: 0, Row: 0, Col: -1},
		} {
			err := state.ApplyMove(move, PlayerX)
			require.ErrorIs(t, err, apperror.ErrIllegalMove)
			require.ErrorIs(t, err, apperror.ErrInvalidCell)
		}
	})

	t.Run("Winning a sub-board updates the outcome cache", func(t *testing.T) {
		// Given: X holds two cells of the top row of board 3
		state := NewGameState()
		state.Boards[3] = SubBoard{{x, x, e}, {o, o, e}, {e, e, e}}

		// When: X completes the row
		require.NoError(t, state.ApplyMove(Move{Board: 3, Row: 0, Col: 2}, PlayerX))

		// Then: board 3 is won by X and the game goes on
		assert.Equal(t, OutcomeWonX, state.Outcomes[3])
		assert.Equal(t, OutcomeOpen, state.Outcome)
	})
}

func TestGameState_MetaOutcome(t *testing.T) {
	t.Run("Three won boards in a row win the game", func(t *testing.T) {
		// Given: X owns boards 0 and 1 and can finish board 2
		state := NewGameState()
		state.Outcomes[0] = OutcomeWonX
		state.Outcomes[1] = OutcomeWonX
		state.Boards[2] = SubBoard{{x, x, e}, {o, o, e}, {e, e, e}}

		// When: X wins board 2
		require.NoError(t, state.ApplyMove(Move{Board: 2, Row: 0, Col: 2}, PlayerX))

		// Then: X wins the game and no board is legal any more
		assert.Equal(t, OutcomeWonX, state.Outcome)
		assert.True(t, state.IsFinished())
		assert.Empty(t, state.LegalBoards())
	})

	t.Run("Drawn boards count for nobody", func(t *testing.T) {
		// Given: boards 0 and 1 won by O, board 2 drawn
		state := NewGameState()
		state.Outcomes[0] = OutcomeWonO
		state.Outcomes[1] = OutcomeWonO
		state.Outcomes[2] = OutcomeDrawn

		// When: X makes any move
		require.NoError(t, state.ApplyMove(Move{Board: 4, Row: 0, Col: 0}, PlayerX))

		// Then: the game is still open
		assert.Equal(t, OutcomeOpen, state.Outcome)
	})

	t.Run("Game is drawn when no board stays open", func(t *testing.T) {
		// Given: every board decided without a line except board 8, one move from a draw
		state := NewGameState()
		for i := range BoardCount - 1 {
			state.Outcomes[i] = OutcomeDrawn
		}
		state.Outcomes[0] = OutcomeWonX
		state.Outcomes[4] = OutcomeWonO
		state.Boards[8] = SubBoard{{x, o, x}, {x, o, o}, {o, x, e}}

		// When: X fills the last cell
		require.NoError(t, state.ApplyMove(Move{Board: 8, Row: 2, Col: 2}, PlayerX))

		// Then: the board and the game are drawn
		assert.Equal(t, OutcomeDrawn, state.Outcomes[8])
		assert.Equal(t, OutcomeDrawn, state.Outcome)
	})

	t.Run("Moves after the end are rejected", func(t *testing.T) {
		state := NewGameState()
		state.Outcome = OutcomeWonO

		err := state.ApplyMove(Move{Board: 0, Row: 0, Col: 0}, PlayerX)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestGameState_Clone(t *testing.T) {
	// Given: a game with an active board
	state := NewGameState()
	require.NoError(t, state.ApplyMove(Move{Board: 0, Row: 0, Col: 1}, PlayerX))

	// When: the clone is changed
	clone := state.Clone()
	*clone.ActiveBoard = 7
	clone.Boards[1][0][0] = PlayerO

	// Then: the original is unaffected
	assert.Equal(t, 1, *state.ActiveBoard)
	assert.Equal(t, EmptyCell, state.Boards[1][0][0])
}
