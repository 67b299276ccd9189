package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/repository"
)

type legalBoardsResponse struct {
	GameID      string         `json:"game_id"`
	Turn        entity.Mark    `json:"turn"`
	Outcome     entity.Outcome `json:"outcome"`
	LegalBoards []int          `json:"legal_boards"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	game, ok := that.loadGame(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Server) getLegalBoards(w http.ResponseWriter, r *http.Request) {
	game, ok := that.loadGame(w, r)
	if !ok {
		return
	}

	boards := game.State.LegalBoards()
	if boards == nil {
		boards = []int{}
	}

	writeJSON(w, http.StatusOK, legalBoardsResponse{
		GameID:      game.ID,
		Turn:        game.State.Turn,
		Outcome:     game.State.Outcome,
		LegalBoards: boards,
	})
}

func (that *Server) loadGame(w http.ResponseWriter, r *http.Request) (*entity.Game, bool) {
	id := chi.URLParam(r, "id")

	game, err := that.games.GetGame(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrGameNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
		return nil, false
	case err != nil:
		that.logger.Error("failed to get game", "gameID", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return nil, false
	}

	return game, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
