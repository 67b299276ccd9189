package entity

import "fmt"

// Mark is the state of a single cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (m Mark) IsPlayer() bool {
	return m == PlayerX || m == PlayerO
}

// Outcome is the resolved status of a sub-board or of the whole game.
type Outcome string

const (
	OutcomeOpen  Outcome = ""
	OutcomeWonX  Outcome = "X"
	OutcomeWonO  Outcome = "O"
	OutcomeDrawn Outcome = "-"
)

// WonBy returns the outcome of a board won by the given player.
func WonBy(m Mark) Outcome {
	switch m {
	case PlayerX:
		return OutcomeWonX
	case PlayerO:
		return OutcomeWonO
	default:
		return OutcomeOpen
	}
}

func (o Outcome) IsOpen() bool {
	return o == OutcomeOpen
}

func (o Outcome) IsDrawn() bool {
	return o == OutcomeDrawn
}

// Winner returns the winning mark, or EmptyCell when nobody won.
func (o Outcome) Winner() Mark {
	switch o {
	case OutcomeWonX:
		return PlayerX
	case OutcomeWonO:
		return PlayerO
	default:
		return EmptyCell
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeOpen:
		return "open"
	case OutcomeDrawn:
		return "drawn"
	default:
		return "won by " + string(o)
	}
}

// Cell addresses a square inside a 3x3 grid.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index returns the row-major index of the cell, 0 is top-left.
func (c Cell) Index() int {
	return c.Row*BoardSize + c.Col
}

func (c Cell) Valid() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// CellAt is the inverse of Cell.Index.
func CellAt(index int) Cell {
	return Cell{Row: index / BoardSize, Col: index % BoardSize}
}

const BoardSize = 3

// Lines lists every row, column and diagonal of a 3x3 grid. Rows come first,
// then columns, then diagonals; Outcome relies on that order.
var Lines = [8][3]Cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Corners of a 3x3 grid.
var Corners = [4]Cell{{0, 0}, {0, 2}, {2, 0}, {2, 2}}

// SubBoard is one 3x3 grid. It is a value type, so assigning it copies the grid.
type SubBoard [BoardSize][BoardSize]Mark

func (that SubBoard) At(c Cell) Mark {
	return that[c.Row][c.Col]
}

// With returns a copy of the board with the cell set to mark.
func (that SubBoard) With(c Cell, mark Mark) SubBoard {
	that[c.Row][c.Col] = mark
	return that
}

// Outcome checks the rows, columns and diagonals for three identical marks.
// A full board without such a line is drawn.
func (that SubBoard) Outcome() Outcome {
	if winner := lineWinner(that.At); winner != EmptyCell {
		return WonBy(winner)
	}

	if len(that.EmptyCells()) == 0 {
		return OutcomeDrawn
	}

	return OutcomeOpen
}

// EmptyCells returns the empty cells in row-major order.
func (that SubBoard) EmptyCells() []Cell {
	cells := make([]Cell, 0, BoardSize*BoardSize)
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col] == EmptyCell {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}

	return cells
}

func (that SubBoard) IsEmpty() bool {
	return len(that.EmptyCells()) == BoardSize*BoardSize
}

// Count returns how many cells of the line hold the given mark.
func (that SubBoard) Count(line [3]Cell, mark Mark) int {
	n := 0
	for _, c := range line {
		if that.At(c) == mark {
			n++
		}
	}

	return n
}

// lineWinner is the win predicate shared by sub-boards and the meta-board.
func lineWinner(at func(Cell) Mark) Mark {
	for _, line := range Lines {
		a, b, c := at(line[0]), at(line[1]), at(line[2])
		if a.IsPlayer() && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}
