package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

type gameGetter interface {
	GetGame(ctx context.Context, id string) (*entity.Game, error)
}

type Server struct {
	logger *slog.Logger
	games  gameGetter
}

func New(logger *slog.Logger, games gameGetter) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

// Handler returns the router with every REST route mounted.
func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)

	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", that.getGame)
		r.Get("/legal-boards", that.getLegalBoards)
	})

	return r
}

// Start - starts HTTP server, it stops when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
