package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

var ErrSessionClosed = errors.New("game session is closed")

// Notifier receives session events. Notify may read the session and register
// anchors but must not call Start, SubmitHumanMove or Close.
type Notifier interface {
	Notify(ctx context.Context, event entity.Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event entity.Event)

func (f NotifierFunc) Notify(ctx context.Context, event entity.Event) {
	f(ctx, event)
}

type turnController interface {
	Start()
	SubmitHumanMove(row, col int) (tictactoe.TurnResult, error)
	PlayAutomatedMove() (tictactoe.TurnResult, error)
	State() tictactoe.State
	Outcome() entity.Outcome
	Board() *entity.Board
}

// GameSession is the process-wide lifecycle wrapper around one game at a time.
type GameSession struct {
	logger        *slog.Logger
	thinkingDelay time.Duration

	mu         sync.Mutex
	dispatchMu sync.Mutex

	controller turnController
	sessionID  string
	anchors    [entity.BoardSize][entity.BoardSize]any

	notifiers   []Notifier
	subscribers map[int]Notifier
	nextSubID   int

	ctx     context.Context //nolint:containedctx // bounds pending automated moves
	cancel  context.CancelFunc
	closed  bool
	pending sync.WaitGroup
}

func NewGameSession(logger *slog.Logger, controller turnController, thinkingDelay time.Duration, notifiers ...Notifier) *GameSession {
	ctx, cancel := context.WithCancel(context.Background())

	return &GameSession{
		logger:        logger.With("component", "game_session"),
		thinkingDelay: thinkingDelay,

		controller:  controller,
		notifiers:   notifiers,
		subscribers: make(map[int]Notifier),

		ctx:    ctx,
		cancel: cancel,
	}
}

// Start resets the board and begins a new session. A pending automated move
// of the previous session is dropped.
func (that *GameSession) Start(ctx context.Context) (entity.SessionSnapshot, error) {
	that.dispatchMu.Lock()
	defer that.dispatchMu.Unlock()

	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return entity.SessionSnapshot{}, ErrSessionClosed
	}

	that.controller.Start()
	that.sessionID = uuid.NewString()
	that.anchors = [entity.BoardSize][entity.BoardSize]any{}
	snapshot := that.snapshotLocked()
	notifiers := that.notifiersLocked()
	that.mu.Unlock()

	that.logger.Info("session started", "session_id", snapshot.SessionID)

	dispatch(ctx, notifiers, entity.NewSessionStartedEvent(snapshot.SessionID))

	return snapshot, nil
}

// SubmitHumanMove places the human mark; unless the game ends, the automated
// reply follows after the thinking delay.
func (that *GameSession) SubmitHumanMove(ctx context.Context, row, col int) (entity.SessionSnapshot, error) {
	log := that.logger.With("method", "SubmitHumanMove")

	that.dispatchMu.Lock()
	defer that.dispatchMu.Unlock()

	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return entity.SessionSnapshot{}, ErrSessionClosed
	}

	result, err := that.controller.SubmitHumanMove(row, col)
	if err != nil {
		snapshot := that.snapshotLocked()
		that.mu.Unlock()
		return snapshot, fmt.Errorf("failed to submit move: %w", err)
	}

	events := that.eventsLocked(result)
	snapshot := that.snapshotLocked()
	notifiers := that.notifiersLocked()

	log.Debug("human move placed", "session_id", snapshot.SessionID, "coordinate", result.Placement.Coordinate.String(), "board", that.controller.Board().String())

	if !result.Ended() {
		that.scheduleLocked(snapshot.SessionID)
	}
	that.mu.Unlock()

	dispatch(ctx, notifiers, events...)

	return snapshot, nil
}

// scheduleLocked runs the automated move after the thinking delay.
func (that *GameSession) scheduleLocked(sessionID string) {
	that.pending.Add(1)

	go func() {
		defer that.pending.Done()

		timer := time.NewTimer(that.thinkingDelay)
		defer timer.Stop()

		select {
		case <-that.ctx.Done():
			return
		case <-timer.C:
		}

		that.playAutomatedMove(sessionID)
	}()
}

func (that *GameSession) playAutomatedMove(sessionID string) {
	log := that.logger.With("method", "playAutomatedMove", "session_id", sessionID)

	that.dispatchMu.Lock()
	defer that.dispatchMu.Unlock()

	that.mu.Lock()
	if that.closed || that.sessionID != sessionID {
		that.mu.Unlock()
		log.Debug("dropping automated move of an abandoned session")
		return
	}

	result, err := that.controller.PlayAutomatedMove()
	if err != nil {
		that.mu.Unlock()
		log.Error("automated move failed", "error", err)
		return
	}

	events := that.eventsLocked(result)
	notifiers := that.notifiersLocked()

	log.Debug("automated move placed", "coordinate", result.Placement.Coordinate.String(), "board", that.controller.Board().String())
	that.mu.Unlock()

	dispatch(that.ctx, notifiers, events...)
}

// eventsLocked turns a placed mark into the collaborator events.
func (that *GameSession) eventsLocked(result tictactoe.TurnResult) []entity.Event {
	c := result.Placement.Coordinate
	events := []entity.Event{
		entity.NewMarkPlacedEvent(that.sessionID, c, result.Placement.Participant, that.anchors[c.Row][c.Col]),
	}

	if result.Ended() {
		that.logger.Info("game ended", "session_id", that.sessionID, "outcome", result.Outcome.String())
		events = append(events, entity.NewGameEndedEvent(that.sessionID, result.Outcome))
	}

	return events
}

func (that *GameSession) notifiersLocked() []Notifier {
	notifiers := make([]Notifier, 0, len(that.notifiers)+len(that.subscribers))
	notifiers = append(notifiers, that.notifiers...)
	for _, subscriber := range that.subscribers {
		notifiers = append(notifiers, subscriber)
	}

	return notifiers
}

// dispatch delivers events in order. Callers hold dispatchMu and not mu, so
// events of consecutive moves never interleave and notifiers may read the session.
func dispatch(ctx context.Context, notifiers []Notifier, events ...entity.Event) {
	for _, event := range events {
		for _, notifier := range notifiers {
			notifier.Notify(ctx, event)
		}
	}
}

// Subscribe adds a notifier until the returned function is called.
func (that *GameSession) Subscribe(notifier Notifier) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	id := that.nextSubID
	that.nextSubID++
	that.subscribers[id] = notifier

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		delete(that.subscribers, id)
	}
}

// RegisterAnchor stores the UI handle of a cell for the current session.
func (that *GameSession) RegisterAnchor(row, col int, handle any) error {
	if !(entity.Coordinate{Row: row, Col: col}).Valid() {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidCoordinate, row, col)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.controller.State() == tictactoe.StateNotStarted {
		return apperror.ErrSessionNotStarted
	}

	that.anchors[row][col] = handle

	return nil
}

func (that *GameSession) Anchor(row, col int) (any, bool) {
	if !(entity.Coordinate{Row: row, Col: col}).Valid() {
		return nil, false
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	handle := that.anchors[row][col]

	return handle, handle != nil
}

func (that *GameSession) Snapshot() entity.SessionSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

func (that *GameSession) snapshotLocked() entity.SessionSnapshot {
	outcome := that.controller.Outcome()
	snapshot := entity.SessionSnapshot{
		SessionID: that.sessionID,
		State:     that.controller.State().String(),
		Board:     that.controller.Board().Cells(),
		Message:   outcome.Message(),
	}

	if code, ok := outcome.Code(); ok {
		snapshot.Outcome = &code
	}

	return snapshot
}

// Close drops pending automated moves and waits for their goroutines.
func (that *GameSession) Close() {
	that.mu.Lock()
	that.closed = true
	that.mu.Unlock()

	that.cancel()
	that.pending.Wait()
}
