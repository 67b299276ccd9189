package tictactoe

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/bot"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

var errSearchFailed = errors.New("search failed")

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) BestMove(state *entity.GameState, board int) (bot.Result, error) {
	args := m.Called(state, board)
	return args.Get(0).(bot.Result), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func firstBoard(boards []int) int {
	return boards[0]
}

func newController() *GameController {
	return NewGameController(discardLogger(), bot.NewSearcher(bot.DefaultDepth, nil), BoardPickerFunc(firstBoard))
}

func TestGameController_PlayTurn(t *testing.T) {
	t.Run("Accepted move is answered by the bot", func(t *testing.T) {
		// Given: a new game where the human plays X
		controller := newController()
		state := entity.NewGameState()

		// When: the human plays the centre of board 0
		result, err := controller.PlayTurn(&state, entity.Move{Board: 0, Row: 1, Col: 1}, entity.PlayerX)

		// Then: the bot answers on board 4 and it is X's turn again
		require.NoError(t, err)
		require.NotNil(t, result.BotMove)
		assert.Equal(t, 4, result.BotMove.Board)
		assert.Equal(t, entity.PlayerO, state.Boards[4][result.BotMove.Row][result.BotMove.Col])
		assert.Equal(t, entity.PlayerX, state.Turn)
		assert.Equal(t, 2, state.TurnCount)
		assert.Equal(t, []Phase{
			PhaseAwaitingHumanMove,
			PhaseValidatingMove,
			PhaseAccepted,
			PhaseCheckingWin,
			PhaseResolvingAIBoard,
			PhaseRunningSearch,
			PhaseApplyingAIMove,
			PhaseCheckingWin,
			PhaseAwaitingHumanMove,
		}, result.Phases)
	})

	t.Run("Rejected move leaves the state untouched", func(t *testing.T) {
		// Given: a game where board 0 cell (0,0) is taken
		controller := newController()
		state := entity.NewGameState()
		_, err := controller.PlayTurn(&state, entity.Move{Board: 4, Row: 0, Col: 0}, entity.PlayerX)
		require.NoError(t, err)
		before := state.Clone()

		// When: the human tries to play outside the active board
		target := *state.ActiveBoard
		result, err := controller.PlayTurn(&state, entity.Move{Board: (target + 1) % entity.BoardCount, Row: 2, Col: 2}, entity.PlayerX)

		// Then: the move is rejected and the state is unchanged
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.Nil(t, result.BotMove)
		assert.Equal(t, []Phase{PhaseAwaitingHumanMove, PhaseValidatingMove, PhaseRejected, PhaseAwaitingHumanMove}, result.Phases)
		assert.Equal(t, before, state)
	})

	t.Run("Winning human move ends the game without a bot move", func(t *testing.T) {
		// Given: X owns boards 0 and 1 and can finish board 2
		searcher := &mockSearcher{}
		controller := NewGameController(discardLogger(), searcher, BoardPickerFunc(firstBoard))
		state := entity.NewGameState()
		state.Outcomes[0] = entity.OutcomeWonX
		state.Outcomes[1] = entity.OutcomeWonX
		state.Boards[2] = entity.SubBoard{{entity.PlayerX, entity.PlayerX, entity.EmptyCell}}

		// When: X completes board 2
		result, err := controller.PlayTurn(&state, entity.Move{Board: 2, Row: 0, Col: 2}, entity.PlayerX)

		// Then: the game is over and the search never ran
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeWonX, state.Outcome)
		assert.Nil(t, result.BotMove)
		assert.Equal(t, PhaseGameOver, result.Phases[len(result.Phases)-1])
		searcher.AssertNotCalled(t, "BestMove", mock.Anything, mock.Anything)
	})

	t.Run("Bot uses the picker when any board is allowed", func(t *testing.T) {
		// Given: board 4 is already won, so sending the bot there frees it
		var offered []int
		picker := BoardPickerFunc(func(boards []int) int {
			offered = boards
			return 8
		})
		controller := NewGameController(discardLogger(), bot.NewSearcher(bot.DefaultDepth, nil), picker)
		state := entity.NewGameState()
		state.Outcomes[4] = entity.OutcomeWonO

		// When: the human plays the centre of board 0
		result, err := controller.PlayTurn(&state, entity.Move{Board: 0, Row: 1, Col: 1}, entity.PlayerX)

		// Then: the picker saw every open board and the bot played where it was told
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, offered)
		require.NotNil(t, result.BotMove)
		assert.Equal(t, 8, result.BotMove.Board)
	})

	t.Run("Search failure is reported", func(t *testing.T) {
		searcher := &mockSearcher{}
		searcher.On("BestMove", mock.Anything, 4).Return(bot.Result{}, errSearchFailed).Once()
		controller := NewGameController(discardLogger(), searcher, BoardPickerFunc(firstBoard))
		state := entity.NewGameState()

		_, err := controller.PlayTurn(&state, entity.Move{Board: 0, Row: 1, Col: 1}, entity.PlayerX)

		require.ErrorIs(t, err, errSearchFailed)
		searcher.AssertExpectations(t)
	})
}

func TestGameController_PlayBotTurn(t *testing.T) {
	t.Run("Bot opens the game as X", func(t *testing.T) {
		controller := newController()
		state := entity.NewGameState()

		result, err := controller.PlayBotTurn(&state)

		require.NoError(t, err)
		require.NotNil(t, result.BotMove)
		assert.Equal(t, 0, result.BotMove.Board)
		assert.Equal(t, entity.PlayerX, state.Boards[0][result.BotMove.Row][result.BotMove.Col])
		assert.Equal(t, entity.PlayerO, state.Turn)
	})

	t.Run("Bot cannot move in a finished game", func(t *testing.T) {
		controller := newController()
		state := entity.NewGameState()
		state.Outcome = entity.OutcomeDrawn

		_, err := controller.PlayBotTurn(&state)

		require.ErrorIs(t, err, bot.ErrNoAvailableMoves)
	})
}

func TestGameController_SelfPlay(t *testing.T) {
	for seed := range int64(5) {
		// Given: two bots sharing a seeded searcher and a random board picker
		rng := rand.New(rand.NewSource(seed))
		controller := NewGameController(
			discardLogger(),
			bot.NewSearcher(bot.DefaultDepth, rand.New(rand.NewSource(seed))),
			NewRandomPicker(rng),
		)
		state := entity.NewGameState()

		// When: they play each other until the game ends
		for moves := 0; !state.IsFinished(); moves++ {
			require.LessOrEqual(t, moves, entity.BoardCount*entity.BoardCount, "seed %d", seed)

			_, err := controller.PlayBotTurn(&state)
			require.NoError(t, err, "seed %d", seed)
		}

		// Then: the game reached a terminal outcome within 81 moves
		assert.NotEqual(t, entity.OutcomeOpen, state.Outcome, "seed %d", seed)
		assert.LessOrEqual(t, state.TurnCount, entity.BoardCount*entity.BoardCount, "seed %d", seed)
	}
}

func TestRandomPicker_PickBoard(t *testing.T) {
	picker := NewRandomPicker(rand.New(rand.NewSource(1)))
	boards := []int{1, 3, 8}

	seen := make(map[int]bool)
	for range 100 {
		board := picker.PickBoard(boards)
		assert.Contains(t, boards, board)
		seen[board] = true
	}

	assert.Len(t, seen, len(boards))
}
