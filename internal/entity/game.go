package entity

import (
	"math/rand"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// Game is a stored human-vs-bot session around a GameState.
type Game struct {
	ID      string    `json:"id"`
	State   GameState `json:"state"`
	Status  string    `json:"status"`
	Players []*Player `json:"players,omitempty"`
	// LastBotMove is the bot's answer to the latest human move.
	LastBotMove *Move `json:"last_bot_move,omitempty"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		State:  NewGameState(),
		Status: StatusOngoing,
	}
}

// UpdateStatus syncs Status with the rules outcome.
func (that *Game) UpdateStatus() {
	if that.State.IsFinished() {
		that.Status = StatusFinished
		return
	}

	that.Status = StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) Winner() Mark {
	return that.State.Outcome.Winner()
}

// Bot returns the bot player of the game, or nil.
func (that *Game) Bot() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}

// PlayerByID returns the player with the given id, or nil.
func (that *Game) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

// RandomMarks returns the marks for the human and the bot, in that order.
func RandomMarks(rng *rand.Rand) (Mark, Mark) {
	if rng.Intn(2) == 0 {
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
