package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

const (
	actionConnect  = "connect"
	actionGameNew  = "game:new"
	actionGameTurn = "game:turn"
	actionGameHint = "game:hint"
	actionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses.
type Payload struct {
	Player      *entity.Player `json:"player,omitempty"`
	Game        *entity.Game   `json:"game,omitempty"`
	Move        *entity.Move   `json:"move,omitempty"`
	LegalBoards []int          `json:"legal_boards,omitempty"`
	Error       string         `json:"error,omitempty"`
}
