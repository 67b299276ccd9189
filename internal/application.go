package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/bot"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/config"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/repository"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/usecase"
	"github.com/rocketscienceinc/ultimate-tictactoe/transport/rest"
	"github.com/rocketscienceinc/ultimate-tictactoe/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	seed := conf.AI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log.Info("AI configured", "depth", conf.AI.Depth, "seed", seed)

	// every consumer gets its own source, *rand.Rand is not safe to share
	searcher := bot.NewSearcher(conf.AI.Depth, rand.New(rand.NewSource(seed)))
	picker := tictactoe.NewRandomPicker(rand.New(rand.NewSource(seed + 1)))

	playerRepo := repository.NewPlayerRepository(redisStorage)
	gameRepo := repository.NewGameRepository(redisStorage)
	gameController := tictactoe.NewGameController(logger, searcher, picker)
	gameUseCase := usecase.NewGameManager(
		logger, playerRepo, gameRepo, gameController, searcher, rand.New(rand.NewSource(seed+2)),
	)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameUseCase)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
