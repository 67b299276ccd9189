package bot

import (
	"math/rand"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

// Candidates returns the moves worth searching for mark on board:
//
//  1. cells that complete a line for mark, and nothing else;
//  2. the four corners of an empty board;
//  3. empty cells of lines holding exactly one mark and two empties;
//  4. every empty cell.
//
// The result never contains an occupied cell and is never empty while the
// board has an empty cell. A non-nil rng shuffles the result.
func Candidates(board entity.SubBoard, mark entity.Mark, rng *rand.Rand) []entity.Cell {
	cells := candidates(board, mark)

	if rng != nil {
		rng.Shuffle(len(cells), func(i, j int) {
			cells[i], cells[j] = cells[j], cells[i]
		})
	}

	return cells
}

func candidates(board entity.SubBoard, mark entity.Mark) []entity.Cell {
	if wins := winningCells(board, mark); len(wins) > 0 {
		return wins
	}

	if board.IsEmpty() {
		corners := entity.Corners
		return corners[:]
	}

	var seen [entity.BoardCount]bool
	setup := make([]entity.Cell, 0, entity.BoardCount)
	for _, line := range entity.Lines {
		if board.Count(line, mark) != 1 || board.Count(line, entity.EmptyCell) != 2 {
			continue
		}

		for _, c := range line {
			if board.At(c) == entity.EmptyCell && !seen[c.Index()] {
				seen[c.Index()] = true
				setup = append(setup, c)
			}
		}
	}

	if len(setup) > 0 {
		return setup
	}

	return board.EmptyCells()
}

// winningCells returns the empty cells that complete a line for mark.
func winningCells(board entity.SubBoard, mark entity.Mark) []entity.Cell {
	var seen [entity.BoardCount]bool
	var wins []entity.Cell

	for _, line := range entity.Lines {
		if board.Count(line, mark) != 2 || board.Count(line, entity.EmptyCell) != 1 {
			continue
		}

		for _, c := range line {
			if board.At(c) == entity.EmptyCell && !seen[c.Index()] {
				seen[c.Index()] = true
				wins = append(wins, c)
			}
		}
	}

	return wins
}
