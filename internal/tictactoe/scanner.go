package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// Line is an ordered run of three cells: a row, a column or a diagonal.
type Line [entity.BoardSize]entity.Coordinate

// LineState is the result of evaluating a line over a board.
type LineState struct {
	First  int
	Second int
	// Empty is meaningful only when HasEmpty is set, i.e. exactly one cell is free.
	Empty    entity.Coordinate
	HasEmpty bool
}

// Completion reports whether some line is fully held by one mark.
type Completion int

const (
	CompletionNone Completion = iota
	FirstWins
	SecondWins
)

// Mark returns the mark that completed the line, Empty for CompletionNone.
func (c Completion) Mark() entity.Mark {
	switch c {
	case FirstWins:
		return entity.FirstMark
	case SecondWins:
		return entity.SecondMark
	default:
		return entity.Empty
	}
}

// Actionable is an empty cell that wins or blocks a line.
type Actionable struct {
	Coordinate entity.Coordinate
	State      LineState
}

type scopeKind int

const (
	scopeRow scopeKind = iota
	scopeColumn
	scopeDiagonals
	scopeBoard
)

// Scope restricts a scan to a subset of lines.
type Scope struct {
	kind  scopeKind
	index int
}

func RowScope(row int) Scope {
	return Scope{kind: scopeRow, index: row}
}

func ColumnScope(col int) Scope {
	return Scope{kind: scopeColumn, index: col}
}

// DiagonalScope covers the main diagonal followed by the anti-diagonal.
func DiagonalScope() Scope {
	return Scope{kind: scopeDiagonals}
}

// BoardScope covers rows 0..2, columns 0..2, then both diagonals.
func BoardScope() Scope {
	return Scope{kind: scopeBoard}
}

// MoveScopes are the lines re-checked after a mark is placed at c.
func MoveScopes(c entity.Coordinate) []Scope {
	return []Scope{RowScope(c.Row), ColumnScope(c.Col), DiagonalScope()}
}

func rowLine(row int) Line {
	return Line{{Row: row, Col: 0}, {Row: row, Col: 1}, {Row: row, Col: 2}}
}

func columnLine(col int) Line {
	return Line{{Row: 0, Col: col}, {Row: 1, Col: col}, {Row: 2, Col: col}}
}

var (
	mainDiagonal = Line{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}}
	antiDiagonal = Line{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}}
)

// Lines returns the lines of the scope in scan order. Out-of-range row or
// column scopes contain no lines.
func (s Scope) Lines() []Line {
	switch s.kind {
	case scopeRow:
		if s.index < 0 || s.index >= entity.BoardSize {
			return nil
		}
		return []Line{rowLine(s.index)}
	case scopeColumn:
		if s.index < 0 || s.index >= entity.BoardSize {
			return nil
		}
		return []Line{columnLine(s.index)}
	case scopeDiagonals:
		return []Line{mainDiagonal, antiDiagonal}
	case scopeBoard:
		lines := make([]Line, 0, 2*entity.BoardSize+2)
		for r := range entity.BoardSize {
			lines = append(lines, rowLine(r))
		}
		for c := range entity.BoardSize {
			lines = append(lines, columnLine(c))
		}
		return append(lines, mainDiagonal, antiDiagonal)
	default:
		return nil
	}
}

func (l Line) Evaluate(board *entity.Board) LineState {
	var (
		state   LineState
		empties int
	)

	for _, c := range l {
		switch board.At(c) {
		case entity.FirstMark:
			state.First++
		case entity.SecondMark:
			state.Second++
		case entity.Empty:
			empties++
			state.Empty = c
		}
	}

	state.HasEmpty = empties == 1
	if !state.HasEmpty {
		state.Empty = entity.Coordinate{}
	}

	return state
}

// Actionable reports two cells of one mark and one empty cell.
func (s LineState) Actionable() bool {
	return s.HasEmpty && (s.First == 2 || s.Second == 2)
}

func (s LineState) Completion() Completion {
	switch {
	case s.First == entity.BoardSize:
		return FirstWins
	case s.Second == entity.BoardSize:
		return SecondWins
	default:
		return CompletionNone
	}
}

// ScanForCompletion checks every line. When several lines are complete,
// which only an inconsistent board allows, the first one in scan order wins;
// the order carries no game meaning.
func ScanForCompletion(board *entity.Board) Completion {
	return ScanScopesForCompletion(board, BoardScope())
}

// ScanScopesForCompletion checks only the lines of the given scopes.
// A completed line outside them goes unnoticed.
func ScanScopesForCompletion(board *entity.Board, scopes ...Scope) Completion {
	for _, scope := range scopes {
		for _, line := range scope.Lines() {
			if completion := line.Evaluate(board).Completion(); completion != CompletionNone {
				return completion
			}
		}
	}

	return CompletionNone
}

// ScanForActionable returns the empty cell of the first actionable line in scope.
// It does not tell whether the pair belongs to the first or the second mark;
// the line counts are returned for callers that care.
func ScanForActionable(board *entity.Board, scope Scope) (Actionable, bool) {
	for _, line := range scope.Lines() {
		state := line.Evaluate(board)
		if state.Actionable() {
			return Actionable{Coordinate: state.Empty, State: state}, true
		}
	}

	return Actionable{}, false
}
