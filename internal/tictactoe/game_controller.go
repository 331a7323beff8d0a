package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// ErrInconsistentState means the controller reached a phase its invariants rule out.
var ErrInconsistentState = errors.New("inconsistent game state")

type State int

const (
	StateNotStarted State = iota
	StateAwaitingHuman
	StateAwaitingAutomated
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateAwaitingHuman:
		return "awaiting_human"
	case StateAwaitingAutomated:
		return "awaiting_automated"
	case StateEnded:
		return "ended"
	default:
		return "not_started"
	}
}

// Placement is a mark written to the board.
type Placement struct {
	Coordinate  entity.Coordinate
	Participant entity.Participant
}

type TurnResult struct {
	Placement Placement
	Outcome   entity.Outcome
}

func (r TurnResult) Ended() bool {
	return r.Outcome.IsTerminal()
}

// GameController owns the board and alternates human and automated turns.
// It is not safe for concurrent use.
type GameController struct {
	strategist Strategist

	board     *entity.Board
	state     State
	outcome   entity.Outcome
	lastHuman entity.Coordinate
}

func NewGameController(strategist Strategist) *GameController {
	return &GameController{
		strategist: strategist,
		board:      entity.NewBoard(),
	}
}

// Start discards the current board and waits for the human's first move.
func (that *GameController) Start() {
	that.board = entity.NewBoard()
	that.state = StateAwaitingHuman
	that.outcome = entity.OutcomeNone
	that.lastHuman = entity.Coordinate{}
}

func (that *GameController) SubmitHumanMove(row, col int) (TurnResult, error) {
	if err := that.confirmState(StateAwaitingHuman); err != nil {
		return TurnResult{}, err
	}

	result, err := that.place(entity.Coordinate{Row: row, Col: col}, entity.Human)
	if err != nil {
		return TurnResult{}, fmt.Errorf("invalid turn: %w", err)
	}

	if !result.Ended() {
		that.lastHuman = result.Placement.Coordinate
		that.state = StateAwaitingAutomated
	}

	return result, nil
}

// PlayAutomatedMove asks the strategist for a reply to the human's last move and places it.
func (that *GameController) PlayAutomatedMove() (TurnResult, error) {
	if err := that.confirmState(StateAwaitingAutomated); err != nil {
		return TurnResult{}, err
	}

	target, err := that.strategist.NextMove(that.board, that.lastHuman)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: strategist failed: %w", ErrInconsistentState, err)
	}

	result, err := that.place(target, entity.Automated)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: strategist chose %s: %w", ErrInconsistentState, target, err)
	}

	if !result.Ended() {
		that.state = StateAwaitingHuman
	}

	return result, nil
}

// place writes the mark and re-checks only the lines through the new mark.
func (that *GameController) place(c entity.Coordinate, participant entity.Participant) (TurnResult, error) {
	if err := that.board.Place(c.Row, c.Col, participant.Mark()); err != nil {
		return TurnResult{}, err //nolint:wrapcheck // wrapped by callers
	}

	result := TurnResult{Placement: Placement{Coordinate: c, Participant: participant}}

	switch completion := ScanScopesForCompletion(that.board, MoveScopes(c)...); {
	case completion != CompletionNone:
		result.Outcome = entity.OutcomeForMark(completion.Mark())
	case that.board.IsFull():
		result.Outcome = entity.OutcomeTie
	}

	if result.Ended() {
		that.state = StateEnded
		that.outcome = result.Outcome
	}

	return result, nil
}

func (that *GameController) confirmState(expected State) error {
	if that.state == expected {
		return nil
	}

	switch that.state {
	case StateNotStarted:
		return apperror.ErrSessionNotStarted
	case StateEnded:
		return fmt.Errorf("%w: %w", apperror.ErrNotYourTurn, apperror.ErrGameFinished)
	default:
		return fmt.Errorf("%w: state %s", apperror.ErrNotYourTurn, that.state)
	}
}

func (that *GameController) State() State {
	return that.state
}

func (that *GameController) Outcome() entity.Outcome {
	return that.outcome
}

// Board returns a copy of the current board.
func (that *GameController) Board() *entity.Board {
	return entity.NewBoardFrom(that.board.Cells())
}
