package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	actionConnect   = "connect"
	actionGameStart = "game:start"
	actionGameTurn  = "game:turn"
	actionGameState = "game:state"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Row *int `json:"row,omitempty"`
	Col *int `json:"col,omitempty"`

	Session *entity.SessionSnapshot `json:"session,omitempty"`
	Event   *entity.Event           `json:"event,omitempty"`
	Error   string                  `json:"error,omitempty"`
}
