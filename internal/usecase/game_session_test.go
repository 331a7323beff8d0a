package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type recorder struct {
	mu     sync.Mutex
	events []entity.Event
}

func (that *recorder) Notify(_ context.Context, event entity.Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
}

func (that *recorder) Events() []entity.Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.Event(nil), that.events...)
}

func (that *recorder) OfType(eventType entity.EventType) []entity.Event {
	var found []entity.Event
	for _, event := range that.Events() {
		if event.Type == eventType {
			found = append(found, event)
		}
	}

	return found
}

type scriptedStrategist struct {
	moves []entity.Coordinate
}

func (that *scriptedStrategist) NextMove(_ *entity.Board, _ entity.Coordinate) (entity.Coordinate, error) {
	if len(that.moves) == 0 {
		return entity.Coordinate{}, tictactoe.ErrNoAvailableMoves
	}

	next := that.moves[0]
	that.moves = that.moves[1:]

	return next, nil
}

func newTestSession(t *testing.T, strategist tictactoe.Strategist, delay time.Duration) (*GameSession, *recorder) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &recorder{}
	session := NewGameSession(logger, tictactoe.NewGameController(strategist), delay, rec)
	t.Cleanup(session.Close)

	return session, rec
}

func waitForState(t *testing.T, session *GameSession, state tictactoe.State) {
	t.Helper()

	require.Eventually(t, func() bool {
		return session.Snapshot().State == state.String()
	}, waitFor, tick)
}

// move submits a human move and waits for the automated reply.
func move(t *testing.T, session *GameSession, row, col int) {
	t.Helper()

	snapshot, err := session.SubmitHumanMove(context.Background(), row, col)
	require.NoError(t, err)
	if snapshot.State == tictactoe.StateEnded.String() {
		return
	}

	require.Eventually(t, func() bool {
		state := session.Snapshot().State
		return state == tictactoe.StateAwaitingHuman.String() || state == tictactoe.StateEnded.String()
	}, waitFor, tick)
}

func TestGameSession_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("Emits session started and waits for the human", func(t *testing.T) {
		session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)

		started, err := session.Start(ctx)

		require.NoError(t, err)
		assert.NotEmpty(t, started.SessionID)
		assert.Equal(t, tictactoe.StateAwaitingHuman.String(), started.State)
		require.Len(t, rec.Events(), 1)
		assert.Equal(t, entity.NewSessionStartedEvent(started.SessionID), rec.Events()[0])
		assert.Equal(t, tictactoe.StateAwaitingHuman.String(), session.Snapshot().State)
	})

	t.Run("Each start gets a new session id", func(t *testing.T) {
		session, _ := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)

		first, err := session.Start(ctx)
		require.NoError(t, err)
		second, err := session.Start(ctx)
		require.NoError(t, err)

		assert.NotEqual(t, first.SessionID, second.SessionID)
		assert.Equal(t, second, session.Snapshot())
	})

	t.Run("Start twice leaves no mark behind", func(t *testing.T) {
		session, _ := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
		_, err := session.Start(ctx)
		require.NoError(t, err)
		move(t, session, 0, 0)

		_, err = session.Start(ctx)
		require.NoError(t, err)
		_, err = session.Start(ctx)
		require.NoError(t, err)

		assert.Equal(t, [3][3]entity.Mark{}, session.Snapshot().Board)
	})
}

func TestGameSession_SubmitHumanMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Error before Start", func(t *testing.T) {
		session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)

		_, err := session.SubmitHumanMove(ctx, 0, 0)

		require.ErrorIs(t, err, apperror.ErrSessionNotStarted)
		assert.Empty(t, rec.Events())
	})

	t.Run("Human move is followed by the automated move", func(t *testing.T) {
		// Given: a started session
		session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), time.Millisecond)
		started, err := session.Start(ctx)
		require.NoError(t, err)
		sessionID := started.SessionID

		// When: the human takes the center
		snapshot, err := session.SubmitHumanMove(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, entity.FirstMark, snapshot.Board[1][1])

		// Then: after the delay the automated participant takes the first corner
		waitForState(t, session, tictactoe.StateAwaitingHuman)

		placed := rec.OfType(entity.EventMarkPlaced)
		require.Len(t, placed, 2)
		assert.Equal(t, entity.NewMarkPlacedEvent(sessionID, entity.Coordinate{Row: 1, Col: 1}, entity.Human, nil), placed[0])
		assert.Equal(t, entity.NewMarkPlacedEvent(sessionID, entity.Coordinate{Row: 0, Col: 0}, entity.Automated, nil), placed[1])
		assert.Equal(t, entity.SecondMark, session.Snapshot().Board[0][0])
	})

	t.Run("Rejects moves while thinking", func(t *testing.T) {
		session, _ := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), time.Hour)
		_, err := session.Start(ctx)
		require.NoError(t, err)
		_, err = session.SubmitHumanMove(ctx, 0, 0)
		require.NoError(t, err)

		_, err = session.SubmitHumanMove(ctx, 2, 2)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.Empty, session.Snapshot().Board[2][2])
		assert.Equal(t, tictactoe.StateAwaitingAutomated.String(), session.Snapshot().State)
	})

	t.Run("Invalid coordinate leaves the board unchanged", func(t *testing.T) {
		session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
		_, err := session.Start(ctx)
		require.NoError(t, err)

		_, err = session.SubmitHumanMove(ctx, 3, 0)
		require.ErrorIs(t, err, apperror.ErrInvalidCoordinate)

		_, err = session.SubmitHumanMove(ctx, 0, -1)
		require.ErrorIs(t, err, apperror.ErrInvalidCoordinate)

		assert.Equal(t, [3][3]entity.Mark{}, session.Snapshot().Board)
		assert.Empty(t, rec.OfType(entity.EventMarkPlaced))
	})

	t.Run("Closed session rejects moves", func(t *testing.T) {
		session, _ := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
		_, err := session.Start(ctx)
		require.NoError(t, err)

		session.Close()

		_, err = session.SubmitHumanMove(ctx, 0, 0)
		require.ErrorIs(t, err, ErrSessionClosed)
		_, err = session.Start(ctx)
		require.ErrorIs(t, err, ErrSessionClosed)
	})
}

func TestGameSession_RestartDropsPendingMove(t *testing.T) {
	ctx := context.Background()

	// Given: a human move whose automated reply is still pending
	session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 50*time.Millisecond)
	_, err := session.Start(ctx)
	require.NoError(t, err)
	_, err = session.SubmitHumanMove(ctx, 0, 0)
	require.NoError(t, err)

	// When: a new session starts before the delay elapses
	started, err := session.Start(ctx)
	require.NoError(t, err)
	sessionID := started.SessionID

	// Then: the stale reply never lands on the new board
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, [3][3]entity.Mark{}, session.Snapshot().Board)
	assert.Equal(t, tictactoe.StateAwaitingHuman.String(), session.Snapshot().State)
	for _, event := range rec.OfType(entity.EventMarkPlaced) {
		assert.NotEqual(t, sessionID, event.SessionID)
		assert.Equal(t, entity.Human, event.Participant)
	}
}

func TestGameSession_HumanWins(t *testing.T) {
	ctx := context.Background()

	// Given: O on (0,0) and (0,1)
	strategist := &scriptedStrategist{moves: []entity.Coordinate{{Row: 1, Col: 1}, {Row: 2, Col: 2}}}
	session, rec := newTestSession(t, strategist, 0)
	started, err := session.Start(ctx)
	require.NoError(t, err)
	sessionID := started.SessionID
	move(t, session, 0, 0)
	move(t, session, 0, 1)

	// When: the human completes the top row
	snapshot, err := session.SubmitHumanMove(ctx, 0, 2)

	// Then: the game ends with code 0 and no automated move follows
	require.NoError(t, err)
	assert.Equal(t, tictactoe.StateEnded.String(), snapshot.State)
	require.NotNil(t, snapshot.Outcome)
	assert.Equal(t, entity.CodeHumanWin, *snapshot.Outcome)
	assert.Equal(t, "Player wins", snapshot.Message)

	ended := rec.OfType(entity.EventGameEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, entity.NewGameEndedEvent(sessionID, entity.OutcomeHumanWin), ended[0])

	_, err = session.SubmitHumanMove(ctx, 2, 0)
	require.ErrorIs(t, err, apperror.ErrGameFinished)
	assert.Len(t, rec.OfType(entity.EventMarkPlaced), 5)
}

func TestGameSession_AutomatedWins(t *testing.T) {
	ctx := context.Background()

	session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
	_, err := session.Start(ctx)
	require.NoError(t, err)

	for _, c := range []entity.Coordinate{{Row: 0, Col: 1}, {Row: 2, Col: 1}, {Row: 0, Col: 0}, {Row: 2, Col: 2}} {
		move(t, session, c.Row, c.Col)
	}

	waitForState(t, session, tictactoe.StateEnded)

	snapshot := session.Snapshot()
	require.NotNil(t, snapshot.Outcome)
	assert.Equal(t, entity.CodeAutomatedWin, *snapshot.Outcome)
	assert.Equal(t, "AI wins", snapshot.Message)
	require.Len(t, rec.OfType(entity.EventGameEnded), 1)

	events := rec.Events()
	assert.Equal(t, entity.EventGameEnded, events[len(events)-1].Type)
}

func TestGameSession_Tie(t *testing.T) {
	ctx := context.Background()

	session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
	_, err := session.Start(ctx)
	require.NoError(t, err)

	for _, c := range []entity.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 1}, {Row: 1, Col: 0}, {Row: 2, Col: 2}} {
		move(t, session, c.Row, c.Col)
	}

	snapshot := session.Snapshot()
	assert.Equal(t, tictactoe.StateEnded.String(), snapshot.State)
	require.NotNil(t, snapshot.Outcome)
	assert.Equal(t, entity.CodeTie, *snapshot.Outcome)

	ended := rec.OfType(entity.EventGameEnded)
	require.Len(t, ended, 1)
	require.NotNil(t, ended[0].Outcome)
	assert.Equal(t, -1, *ended[0].Outcome)
	assert.Equal(t, "Tie", ended[0].Message)
}

func TestGameSession_Anchors(t *testing.T) {
	ctx := context.Background()

	t.Run("Registration needs a started session", func(t *testing.T) {
		session, _ := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)

		err := session.RegisterAnchor(0, 0, "cell-0-0")

		require.ErrorIs(t, err, apperror.ErrSessionNotStarted)
	})

	t.Run("Invalid coordinate", func(t *testing.T) {
		session, _ := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
		_, err := session.Start(ctx)
		require.NoError(t, err)

		err = session.RegisterAnchor(3, 0, "nowhere")

		require.ErrorIs(t, err, apperror.ErrInvalidCoordinate)
	})

	t.Run("Mark events carry the anchor and Start clears them", func(t *testing.T) {
		// Given: the UI registers every cell when the session starts
		session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
		_, err := session.Start(ctx)
		require.NoError(t, err)
		for r := range entity.BoardSize {
			for c := range entity.BoardSize {
				require.NoError(t, session.RegisterAnchor(r, c, [2]int{r, c}))
			}
		}

		// When: the human plays the center
		move(t, session, 1, 1)

		// Then: both mark events point at the registered handles
		placed := rec.OfType(entity.EventMarkPlaced)
		require.Len(t, placed, 2)
		assert.Equal(t, [2]int{1, 1}, placed[0].Anchor)
		assert.Equal(t, [2]int{0, 0}, placed[1].Anchor)

		handle, ok := session.Anchor(2, 2)
		require.True(t, ok)
		assert.Equal(t, [2]int{2, 2}, handle)

		_, err = session.Start(ctx)
		require.NoError(t, err)
		_, ok = session.Anchor(2, 2)
		assert.False(t, ok)
	})
}

func TestGameSession_Subscribe(t *testing.T) {
	ctx := context.Background()

	session, _ := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
	sub := &recorder{}
	unsubscribe := session.Subscribe(sub)

	_, err := session.Start(ctx)
	require.NoError(t, err)
	require.Len(t, sub.Events(), 1)

	unsubscribe()

	_, err = session.Start(ctx)
	require.NoError(t, err)
	assert.Len(t, sub.Events(), 1)
}

func TestGameSession_NotifierReadsSession(t *testing.T) {
	ctx := context.Background()

	// Given: a UI that registers anchors on start and reads the board on every placement
	session, rec := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)

	var mu sync.Mutex
	var seen []entity.SessionSnapshot
	session.Subscribe(NotifierFunc(func(_ context.Context, event entity.Event) {
		switch event.Type {
		case entity.EventSessionStarted:
			for r := range entity.BoardSize {
				for c := range entity.BoardSize {
					assert.NoError(t, session.RegisterAnchor(r, c, [2]int{r, c}))
				}
			}
		case entity.EventMarkPlaced:
			if event.Participant == entity.Human {
				// leave room for the automated move to become due
				time.Sleep(20 * time.Millisecond)
			}

			_, _ = session.Anchor(event.Coordinate.Row, event.Coordinate.Col)
			snapshot := session.Snapshot()

			mu.Lock()
			seen = append(seen, snapshot)
			mu.Unlock()
		}
	}))

	_, err := session.Start(ctx)
	require.NoError(t, err)

	// When: the human moves
	done := make(chan error, 1)
	go func() {
		_, err := session.SubmitHumanMove(ctx, 1, 1)
		done <- err
	}()

	// Then: the move returns and the automated reply still arrives
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("SubmitHumanMove did not return")
	}

	waitForState(t, session, tictactoe.StateAwaitingHuman)

	placed := rec.OfType(entity.EventMarkPlaced)
	require.Len(t, placed, 2)
	assert.Equal(t, [2]int{1, 1}, placed[0].Anchor)
	assert.Equal(t, [2]int{0, 0}, placed[1].Anchor)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(seen) == 2
	}, waitFor, tick)
}

func TestGameSession_StartReturnsItsOwnSnapshot(t *testing.T) {
	ctx := context.Background()

	session, _ := newTestSession(t, tictactoe.NewStrategist(entity.SecondMark), 0)
	_, err := session.Start(ctx)
	require.NoError(t, err)
	move(t, session, 0, 0)

	started, err := session.Start(ctx)

	require.NoError(t, err)
	assert.Equal(t, tictactoe.StateAwaitingHuman.String(), started.State)
	assert.Equal(t, [3][3]entity.Mark{}, started.Board)
	assert.Nil(t, started.Outcome)
}
