package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
)

func marshalPayload(payload Payload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return body, nil
}

func unmarshalPayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

// playerID - the player named in the payload, falling back to the session cookie.
func playerID(conn *connection, payload Payload) string {
	if payload.Player != nil && payload.Player.ID != "" {
		return payload.Player.ID
	}

	return conn.sessionID
}

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := unmarshalPayload(msg)
	if err != nil {
		return that.sendError(ctx, conn, msg.Action, err.Error())
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID(conn, payload))
	if err != nil {
		_ = that.sendError(ctx, conn, msg.Action, "failed to get player")
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	that.logger.Info("Player connected", "playerID", player.ID)

	return that.sendMessage(ctx, conn, msg.Action, Payload{Player: player})
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := unmarshalPayload(msg)
	if err != nil {
		return that.sendError(ctx, conn, msg.Action, err.Error())
	}

	id := playerID(conn, payload)

	game, err := that.uGame.GetOrCreateGame(ctx, id)
	if err != nil {
		_ = that.sendError(ctx, conn, msg.Action, "failed to get game")
		return fmt.Errorf("failed to get or create game: %w", err)
	}

	return that.sendMessage(ctx, conn, msg.Action, Payload{
		Player:      game.PlayerByID(id),
		Game:        game,
		Move:        game.LastBotMove,
		LegalBoards: game.State.LegalBoards(),
	})
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	payload, err := unmarshalPayload(msg)
	if err != nil {
		return that.sendError(ctx, conn, msg.Action, err.Error())
	}

	if payload.Move == nil {
		return that.sendError(ctx, conn, msg.Action, "move is required")
	}

	id := playerID(conn, payload)
	log = log.With("playerID", id)

	game, err := that.uGame.MakeTurn(ctx, id, *payload.Move)

	switch {
	case errors.Is(err, apperror.ErrGameFinished) && game != nil:
		log.Info("game finished", "gameID", game.ID, "outcome", game.State.Outcome.String())

		return that.sendMessage(ctx, conn, msg.Action, Payload{
			Player: game.PlayerByID(id),
			Game:   game,
			Move:   game.LastBotMove,
		})
	case errors.Is(err, apperror.ErrIllegalMove) && game != nil:
		return that.sendMessage(ctx, conn, msg.Action, Payload{
			Game:        game,
			LegalBoards: game.State.LegalBoards(),
			Error:       err.Error(),
		})
	case err != nil:
		log.Error("failed to make turn", "error", err)
		return that.sendError(ctx, conn, msg.Action, "failed to make turn")
	}

	log.Info("Player made a turn", "gameID", game.ID)

	return that.sendMessage(ctx, conn, msg.Action, Payload{
		Player:      game.PlayerByID(id),
		Game:        game,
		Move:        game.LastBotMove,
		LegalBoards: game.State.LegalBoards(),
	})
}

func (that *Server) handleGameHint(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := unmarshalPayload(msg)
	if err != nil {
		return that.sendError(ctx, conn, msg.Action, err.Error())
	}

	if payload.Move == nil {
		return that.sendError(ctx, conn, msg.Action, "board is required")
	}

	move, err := that.uGame.BestMove(ctx, playerID(conn, payload), payload.Move.Board)
	if err != nil {
		return that.sendError(ctx, conn, msg.Action, err.Error())
	}

	return that.sendMessage(ctx, conn, msg.Action, Payload{Move: &move})
}
