package entity

// SessionSnapshot is a read-only view of the current session for collaborators.
type SessionSnapshot struct {
	SessionID string                     `json:"session_id"`
	State     string                     `json:"state"`
	Board     [BoardSize][BoardSize]Mark `json:"board"`
	Outcome   *int                       `json:"outcome,omitempty"`
	Message   string                     `json:"message,omitempty"`
}
