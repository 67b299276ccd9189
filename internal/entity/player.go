package entity

import "strings"

const botIDPrefix = "bot:"

type Player struct {
	ID     string `json:"id"`
	Mark   Mark   `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

// NewBotPlayer creates the AI opponent seat of a game.
func NewBotPlayer(gameID string, mark Mark) *Player {
	return &Player{
		ID:     botIDPrefix + gameID,
		Mark:   mark,
		GameID: gameID,
	}
}

func (that *Player) IsBot() bool {
	return strings.HasPrefix(that.ID, botIDPrefix)
}
