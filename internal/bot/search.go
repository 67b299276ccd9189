package bot

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

// DefaultDepth searches a sub-board to exhaustion.
const DefaultDepth = entity.BoardCount

const (
	ScoreWin  = 1
	ScoreDraw = 0
	ScoreLoss = -1
)

var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrBoardNotPlayable = errors.New("board is not playable")
)

// Result is the outcome of a root search.
type Result struct {
	Cell  entity.Cell `json:"cell"`
	Score int         `json:"score"`
	Nodes int         `json:"nodes"`
}

// Searcher runs minimax over a single sub-board. It is safe for concurrent
// use; searches are serialised because they share the random source.
type Searcher struct {
	depth int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSearcher creates a searcher bounded by depth. A nil rng disables
// shuffling of equally good candidates, which makes the chosen move
// deterministic.
func NewSearcher(depth int, rng *rand.Rand) *Searcher {
	if depth <= 0 {
		depth = DefaultDepth
	}

	return &Searcher{
		depth: depth,
		rng:   rng,
	}
}

// BestMove picks the cell the player to move should take on the given,
// already resolved, sub-board.
func (that *Searcher) BestMove(state *entity.GameState, board int) (Result, error) {
	if !state.IsLegalBoard(board) {
		return Result{}, fmt.Errorf("%w: %d", ErrBoardNotPlayable, board)
	}

	return that.Search(state.Boards[board], state.Turn)
}

// Search returns the best cell for mark on board together with its score
// from mark's point of view.
func (that *Searcher) Search(board entity.SubBoard, mark entity.Mark) (Result, error) {
	if !board.Outcome().IsOpen() {
		return Result{}, ErrNoAvailableMoves
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	s := &search{rng: that.rng, maxMark: mark}

	found := false
	result := Result{Score: math.MinInt}
	for _, c := range Candidates(board, mark, s.rng) {
		score := s.minimax(board.With(c, mark), that.depth-1, false)
		if score > result.Score {
			result.Score = score
			result.Cell = c
			found = true
		}
	}

	if !found {
		return Result{}, ErrNoAvailableMoves
	}

	result.Nodes = s.nodes

	return result, nil
}

// Minimax scores board from maxMark's point of view with depth plies left.
func (that *Searcher) Minimax(board entity.SubBoard, maxMark entity.Mark, depth int, maximizing bool) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	s := &search{rng: that.rng, maxMark: maxMark}

	return s.minimax(board, depth, maximizing)
}

type search struct {
	rng     *rand.Rand
	maxMark entity.Mark
	nodes   int
}

func (that *search) minimax(board entity.SubBoard, depth int, maximizing bool) int {
	that.nodes++

	switch outcome := board.Outcome(); {
	case outcome.Winner() == that.maxMark:
		return ScoreWin
	case outcome.Winner() == that.maxMark.Opponent():
		return ScoreLoss
	case outcome.IsDrawn():
		return ScoreDraw
	}

	// no static evaluation, an unfinished board at the horizon counts as even
	if depth <= 0 {
		return ScoreDraw
	}

	if maximizing {
		best := math.MinInt
		for _, c := range Candidates(board, that.maxMark, that.rng) {
			best = max(best, that.minimax(board.With(c, that.maxMark), depth-1, false))
		}

		return best
	}

	minMark := that.maxMark.Opponent()
	best := math.MaxInt
	for _, c := range Candidates(board, minMark, that.rng) {
		best = min(best, that.minimax(board.With(c, minMark), depth-1, true))
	}

	return best
}
