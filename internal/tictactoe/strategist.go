package tictactoe

import (
	"errors"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

var center = entity.Coordinate{Row: 1, Col: 1}

var (
	// claimed when the opponent holds the center, against the center-then-corner fork
	cornerCells = [...]entity.Coordinate{
		{Row: 0, Col: 0},
		{Row: 2, Col: 2},
		{Row: 0, Col: 2},
		{Row: 2, Col: 0},
	}
	// claimed when we hold the center, against the three corner fork
	edgeCells = [...]entity.Coordinate{
		{Row: 0, Col: 1},
		{Row: 1, Col: 2},
		{Row: 2, Col: 1},
		{Row: 1, Col: 0},
	}
)

type Strategist interface {
	// NextMove picks a cell for the automated participant after the opponent played last.
	NextMove(board *entity.Board, last entity.Coordinate) (entity.Coordinate, error)
}

type heuristicStrategist struct {
	mark entity.Mark
}

// NewStrategist returns the line-then-position heuristic playing the given mark.
// It does no lookahead.
func NewStrategist(mark entity.Mark) Strategist {
	return &heuristicStrategist{mark: mark}
}

func (that *heuristicStrategist) NextMove(board *entity.Board, last entity.Coordinate) (entity.Coordinate, error) {
	for _, scope := range []Scope{RowScope(last.Row), ColumnScope(last.Col), DiagonalScope()} {
		if found, ok := ScanForActionable(board, scope); ok {
			return found.Coordinate, nil
		}
	}

	return that.positional(board)
}

func (that *heuristicStrategist) positional(board *entity.Board) (entity.Coordinate, error) {
	var first, second []entity.Coordinate

	switch board.At(center) {
	case entity.Empty:
		return center, nil
	case that.mark:
		first, second = edgeCells[:], cornerCells[:]
	default:
		first, second = cornerCells[:], edgeCells[:]
	}

	for _, list := range [][]entity.Coordinate{first, second} {
		for _, c := range list {
			if board.At(c) == entity.Empty {
				return c, nil
			}
		}
	}

	return entity.Coordinate{}, ErrNoAvailableMoves
}
