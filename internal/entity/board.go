package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

// BoardSize is the side length of the board. Line detection is specialized to 3x3.
const BoardSize = 3

var ErrInvalidMark = errors.New("invalid mark")

// Mark is the content of a single board cell.
type Mark int8

const (
	Empty Mark = iota
	// FirstMark belongs to the human participant.
	FirstMark
	// SecondMark belongs to the automated participant.
	SecondMark
)

func (m Mark) String() string {
	switch m {
	case FirstMark:
		return "O"
	case SecondMark:
		return "X"
	default:
		return ""
	}
}

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*m = Empty
	case "O":
		*m = FirstMark
	case "X":
		*m = SecondMark
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMark, text)
	}

	return nil
}

// Opponent returns the other participant's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case FirstMark:
		return SecondMark
	case SecondMark:
		return FirstMark
	default:
		return Empty
	}
}

// Coordinate addresses a cell as (row, col).
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coordinate) Valid() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

func (c Coordinate) String() string {
	return fmt.Sprintf("[%d,%d]", c.Row, c.Col)
}

// Board is a row-major 3x3 grid of marks. A cell is written at most once.
type Board struct {
	cells [BoardSize][BoardSize]Mark
}

func NewBoard() *Board {
	return &Board{}
}

// NewBoardFrom builds a board from a literal grid, mostly for tests and snapshots.
func NewBoardFrom(cells [BoardSize][BoardSize]Mark) *Board {
	return &Board{cells: cells}
}

func (that *Board) Place(row, col int, mark Mark) error {
	if !(Coordinate{Row: row, Col: col}).Valid() {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidCoordinate, row, col)
	}

	if mark != FirstMark && mark != SecondMark {
		return fmt.Errorf("%w: %d", ErrInvalidMark, mark)
	}

	if that.cells[row][col] != Empty {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrCellOccupied, row, col)
	}

	that.cells[row][col] = mark

	return nil
}

// Get returns Empty for coordinates outside the board.
func (that *Board) Get(row, col int) Mark {
	if !(Coordinate{Row: row, Col: col}).Valid() {
		return Empty
	}

	return that.cells[row][col]
}

func (that *Board) At(c Coordinate) Mark {
	return that.Get(c.Row, c.Col)
}

func (that *Board) IsFull() bool {
	for _, row := range that.cells {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// EmptyCells lists the free cells in row-major order.
func (that *Board) EmptyCells() []Coordinate {
	free := make([]Coordinate, 0, BoardSize*BoardSize)
	for r, row := range that.cells {
		for c, cell := range row {
			if cell == Empty {
				free = append(free, Coordinate{Row: r, Col: c})
			}
		}
	}

	return free
}

// Cells returns a copy of the grid.
func (that *Board) Cells() [BoardSize][BoardSize]Mark {
	return that.cells
}

// String renders the grid as three lines of [O]/[X]/[_] cells.
func (that *Board) String() string {
	var sb strings.Builder
	for r, row := range that.cells {
		for _, cell := range row {
			if cell == Empty {
				sb.WriteString("[_]")
				continue
			}
			sb.WriteString("[" + cell.String() + "]")
		}
		if r < BoardSize-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
