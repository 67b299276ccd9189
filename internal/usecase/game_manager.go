package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/bot"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/repository"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/tictactoe"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameController interface {
	PlayTurn(state *entity.GameState, move entity.Move, human entity.Mark) (*tictactoe.TurnResult, error)
	PlayBotTurn(state *entity.GameState) (*tictactoe.TurnResult, error)
}

type moveSearcher interface {
	BestMove(state *entity.GameState, board int) (bot.Result, error)
}

type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	controller gameController
	searcher   moveSearcher

	mu  sync.Mutex
	rng *rand.Rand

	// one mutex per game id, turns of the same game never overlap
	locks sync.Map
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	gameRepo gameRepo,
	controller gameController,
	searcher moveSearcher,
	rng *rand.Rand,
) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		controller: controller,
		searcher:   searcher,
		rng:        rng,
	}
}

// MakeTurn plays the human move of the player and the bot's answer. When the
// game ends it is deleted and the final state is returned with ErrGameFinished.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	unlock := that.lockGame(player.GameID)
	defer unlock()

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("%w by id", err)
	}

	if game.IsFinished() {
		that.deleteGame(ctx, game)

		return game, apperror.ErrGameFinished
	}

	result, err := that.controller.PlayTurn(&game.State, move, player.Mark)
	if err != nil {
		return game, fmt.Errorf("failed make turn: %w", err)
	}

	game.LastBotMove = result.BotMove
	game.UpdateStatus()

	if err = that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	if game.IsFinished() {
		that.deleteGame(ctx, game)

		return game, apperror.ErrGameFinished
	}

	return game, nil
}

// BestMove suggests a move for the player on one of the legal boards.
func (that *GameManager) BestMove(ctx context.Context, playerID string, board int) (entity.Move, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return entity.Move{}, apperror.ErrNoActiveGames
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed get game: %w", err)
	}

	if game.State.Turn != player.Mark {
		return entity.Move{}, apperror.ErrNotYourTurn
	}

	result, err := that.searcher.BestMove(&game.State, board)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to search best move: %w", err)
	}

	return entity.Move{Board: board, Row: result.Cell.Row, Col: result.Cell.Col}, nil
}

func (that *GameManager) GetOrCreateGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID != "" {
		existingGame, err := that.getGameByID(ctx, player.GameID)
		if err == nil {
			return existingGame, nil
		}

		if !errors.Is(err, repository.ErrGameNotFound) {
			return nil, fmt.Errorf("failed get game: %w", err)
		}
	}

	newGame, err := that.createGame(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed create game: %w", err)
	}

	return newGame, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	return that.getGameByID(ctx, id)
}

func (that *GameManager) createGame(ctx context.Context, player *entity.Player) (*entity.Game, error) {
	log := that.logger.With("method", "createGame")

	newGame := entity.NewGame(uuid.NewString())

	humanMark, botMark := that.randomMarks()
	player.GameID = newGame.ID
	player.Mark = humanMark
	botPlayer := entity.NewBotPlayer(newGame.ID, botMark)
	newGame.Players = []*entity.Player{player, botPlayer}

	if botMark == entity.PlayerX {
		result, err := that.controller.PlayBotTurn(&newGame.State)
		if err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}

		newGame.LastBotMove = result.BotMove
	}

	for _, p := range newGame.Players {
		if err := that.updatePlayer(ctx, p); err != nil {
			return nil, fmt.Errorf("failed update player: %w", err)
		}
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, newGame); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "gameID", newGame.ID, "playerID", player.ID, "mark", humanMark)

	return newGame, nil
}

func (that *GameManager) randomMarks() (entity.Mark, entity.Mark) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.RandomMarks(that.rng)
}

func (that *GameManager) lockGame(id string) func() {
	value, _ := that.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()

	return mu.Unlock
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	that.locks.Delete(game.ID)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		detached := *player
		detached.Mark = ""
		detached.GameID = ""

		if err := that.playerRepo.CreateOrUpdate(ctx, &detached); err != nil {
			log.Error("failed to update player", "error", err)
		}
	}

	log.Info("game deleted", "outcome", game.State.Outcome.String())
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		player = &entity.Player{ID: id}
		if err = that.updatePlayer(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to register player %w", err)
		}

		return player, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id %w", err)
	}

	return player, nil
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: uuid.NewString(),
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
