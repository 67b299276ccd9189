package tictactoe

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/bot"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

// Phase is a step of one turn.
type Phase string

const (
	PhaseAwaitingHumanMove Phase = "awaiting_human_move"
	PhaseValidatingMove    Phase = "validating_move"
	PhaseRejected          Phase = "rejected"
	PhaseAccepted          Phase = "accepted"
	PhaseCheckingWin       Phase = "checking_win"
	PhaseResolvingAIBoard  Phase = "resolving_ai_board"
	PhaseRunningSearch     Phase = "running_search"
	PhaseApplyingAIMove    Phase = "applying_ai_move"
	PhaseGameOver          Phase = "game_over"
)

type searcher interface {
	BestMove(state *entity.GameState, board int) (bot.Result, error)
}

// BoardPicker chooses the sub-board the bot plays in when several are legal.
type BoardPicker interface {
	PickBoard(boards []int) int
}

type BoardPickerFunc func(boards []int) int

func (f BoardPickerFunc) PickBoard(boards []int) int {
	return f(boards)
}

// RandomPicker picks uniformly among the legal boards.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPicker(rng *rand.Rand) *RandomPicker {
	return &RandomPicker{rng: rng}
}

func (that *RandomPicker) PickBoard(boards []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return boards[that.rng.Intn(len(boards))]
}

// TurnResult records what happened during one turn.
type TurnResult struct {
	HumanMove *entity.Move `json:"human_move,omitempty"`
	BotMove   *entity.Move `json:"bot_move,omitempty"`
	BotScore  int          `json:"bot_score"`
	Phases    []Phase      `json:"phases"`
}

type GameController struct {
	logger   *slog.Logger
	searcher searcher
	picker   BoardPicker
}

func NewGameController(logger *slog.Logger, searcher searcher, picker BoardPicker) *GameController {
	return &GameController{
		logger:   logger.With("component", "game_controller"),
		searcher: searcher,
		picker:   picker,
	}
}

// PlayTurn applies the human move and, if the game goes on, answers with the
// bot's move. A rejected move leaves state untouched.
func (that *GameController) PlayTurn(state *entity.GameState, move entity.Move, human entity.Mark) (*TurnResult, error) {
	result := &TurnResult{
		HumanMove: &move,
		Phases:    []Phase{PhaseAwaitingHumanMove, PhaseValidatingMove},
	}

	if err := state.ApplyMove(move, human); err != nil {
		result.Phases = append(result.Phases, PhaseRejected, PhaseAwaitingHumanMove)
		return result, fmt.Errorf("failed to apply human move: %w", err)
	}

	result.Phases = append(result.Phases, PhaseAccepted, PhaseCheckingWin)
	if state.IsFinished() {
		result.Phases = append(result.Phases, PhaseGameOver)
		return result, nil
	}

	if err := that.playBot(state, result); err != nil {
		return result, err
	}

	return result, nil
}

// PlayBotTurn lets the bot move for the player whose turn it is.
func (that *GameController) PlayBotTurn(state *entity.GameState) (*TurnResult, error) {
	result := &TurnResult{}

	if err := that.playBot(state, result); err != nil {
		return result, err
	}

	return result, nil
}

func (that *GameController) playBot(state *entity.GameState, result *TurnResult) error {
	log := that.logger.With("method", "playBot", "mark", state.Turn)

	result.Phases = append(result.Phases, PhaseResolvingAIBoard)
	board, err := that.resolveBoard(state)
	if err != nil {
		return err
	}

	result.Phases = append(result.Phases, PhaseRunningSearch)
	found, err := that.searcher.BestMove(state, board)
	if err != nil {
		return fmt.Errorf("bot failed to find a move on board %d: %w", board, err)
	}

	result.Phases = append(result.Phases, PhaseApplyingAIMove)
	move := entity.Move{Board: board, Row: found.Cell.Row, Col: found.Cell.Col}
	if err = state.ApplyMove(move, state.Turn); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	log.Debug("bot moved", "move", move.String(), "score", found.Score, "nodes", found.Nodes)

	result.BotMove = &move
	result.BotScore = found.Score
	result.Phases = append(result.Phases, PhaseCheckingWin)

	if state.IsFinished() {
		result.Phases = append(result.Phases, PhaseGameOver)
	} else {
		result.Phases = append(result.Phases, PhaseAwaitingHumanMove)
	}

	return nil
}

func (that *GameController) resolveBoard(state *entity.GameState) (int, error) {
	boards := state.LegalBoards()

	switch len(boards) {
	case 0:
		return 0, bot.ErrNoAvailableMoves
	case 1:
		return boards[0], nil
	default:
		return that.picker.PickBoard(boards), nil
	}
}
