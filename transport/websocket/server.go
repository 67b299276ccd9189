package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

const sessionCookie = "user_session"

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetOrCreateGame(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error)
	BestMove(ctx context.Context, playerID string, board int) (entity.Move, error)
}

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

type Server struct {
	logger *slog.Logger
	uGame  uGame

	handlers map[string]handlerFunc
}

// connection is one client socket together with its session.
type connection struct {
	ws        *websocket.Conn
	sessionID string
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameHint] = server.handleGameHint

	return server
}

// Handler returns the HTTP handler serving the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server, it stops when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
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

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	sessionID := that.setSessionCookie(writer, req)

	ws, err := websocket.Accept(writer, req, nil)
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}

	defer ws.CloseNow()

	log.Info("WebSocket connection established", "session", sessionID)

	conn := &connection{ws: ws, sessionID: sessionID}
	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
		return
	}

	ws.Close(websocket.StatusNormalClosure, "")
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := wsjson.Read(ctx, conn.ws, &message); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)

			if err := that.sendError(ctx, conn, actionError, "unknown action "+message.Action); err != nil {
				return err
			}

			continue
		}

		if err := handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) sendMessage(ctx context.Context, conn *connection, action string, payload Payload) error {
	body, err := marshalPayload(payload)
	if err != nil {
		return err
	}

	if err = wsjson.Write(ctx, conn.ws, Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(ctx context.Context, conn *connection, action, errorMsg string) error {
	if err := that.sendMessage(ctx, conn, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// setSessionCookie - returns the user session, creating it when missing.
func (that *Server) setSessionCookie(writer http.ResponseWriter, req *http.Request) string {
	cookie, err := req.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	cookie = &http.Cookie{
		Name:     sessionCookie,
		Value:    uuid.NewString(),
		Expires:  time.Now().Add(24 * time.Hour),
		Path:     "/ws",
		HttpOnly: true,
	}
	http.SetCookie(writer, cookie)

	return cookie.Value
}
