package entity

type EventType string

const (
	EventSessionStarted EventType = "session:started"
	EventMarkPlaced     EventType = "mark:placed"
	EventGameEnded      EventType = "game:ended"
)

// Event is the notification envelope sent to external collaborators.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`

	// set for mark:placed
	Coordinate  *Coordinate `json:"coordinate,omitempty"`
	Mark        Mark        `json:"mark,omitempty"`
	Participant Participant `json:"participant,omitempty"`
	// Anchor is the opaque handle registered by the UI for the cell.
	Anchor      any         `json:"-"`

	// set for game:ended
	Outcome *int   `json:"outcome,omitempty"`
	Message string `json:"message,omitempty"`
}

func NewSessionStartedEvent(sessionID string) Event {
	return Event{Type: EventSessionStarted, SessionID: sessionID}
}

func NewMarkPlacedEvent(sessionID string, c Coordinate, participant Participant, anchor any) Event {
	return Event{
		Type:        EventMarkPlaced,
		SessionID:   sessionID,
		Coordinate:  &c,
		Mark:        participant.Mark(),
		Participant: participant,
		Anchor:      anchor,
	}
}

func NewGameEndedEvent(sessionID string, outcome Outcome) Event {
	event := Event{Type: EventGameEnded, SessionID: sessionID, Message: outcome.Message()}
	if code, ok := outcome.Code(); ok {
		event.Outcome = &code
	}

	return event
}
