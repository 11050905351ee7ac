package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	chesserrors "github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Terminal clients send no Origin header; browsers are not a target.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.log.Debug("websocket upgrade failed", "err", err)
		return
	}
	c := s.hub.add(ws)
	defer func() {
		s.hub.drop(c)
		_ = ws.Close()
	}()

	ws.SetReadLimit(maxJSONBodyBytes)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read failed", "err", err)
			}
			return
		}
		var cmd model.UserGameCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.replyError(c, chesserrors.Wrap(chesserrors.ErrBadRequest, "invalid command"))
			continue
		}
		s.dispatch(r.Context(), c, cmd)
	}
}

func (s *Server) dispatch(ctx context.Context, c *conn, cmd model.UserGameCommand) {
	var err error
	switch cmd.CommandType {
	case model.Connect:
		err = s.connect(ctx, c, cmd)
	case model.MakeMove:
		err = s.makeMove(ctx, c, cmd)
	case model.Leave:
		err = s.leave(ctx, c, cmd)
	case model.Resign:
		err = s.resign(ctx, c, cmd)
	default:
		err = chesserrors.Wrapf(chesserrors.ErrBadRequest, "unknown command %q", cmd.CommandType)
	}
	if err != nil {
		s.replyError(c, err)
	}
}

func (s *Server) replyError(c *conn, err error) {
	if service.HTTPStatus(err) == http.StatusInternalServerError {
		s.log.Error("websocket command failed", "err", err)
	}
	if sendErr := c.send(model.NewError(err.Error())); sendErr != nil {
		s.log.Debug("websocket send failed", "err", sendErr)
	}
}

// connect sends the game to the caller and tells the other followers who
// arrived. Both happen on the game's worker, so no move can slip between
// the position loaded here and the caller joining the hub.
func (s *Server) connect(ctx context.Context, c *conn, cmd model.UserGameCommand) error {
	return s.games.Follow(ctx, cmd.AuthToken, cmd.GameID, func(g *model.GameData, a model.AuthData) error {
		s.hub.join(c, g.ID)
		if err := c.send(model.NewLoadGame(g.Game)); err != nil {
			return err
		}

		role := "an observer"
		if colour, ok := g.ColourOf(a.Username); ok {
			role = colour.String()
		}
		s.hub.broadcast(g.ID, c, model.NewNotification(fmt.Sprintf("%s joined the game as %s", a.Username, role)))
		return nil
	})
}

// makeMove plays the move. The new position, the move and any check, mate
// or stalemate are published from the game's worker.
func (s *Server) makeMove(ctx context.Context, c *conn, cmd model.UserGameCommand) error {
	if cmd.Move == nil {
		return chesserrors.Wrap(chesserrors.ErrBadRequest, "move is required")
	}
	_, err := s.games.MakeMove(ctx, cmd.AuthToken, cmd.GameID, *cmd.Move, func(res *service.MoveResult) {
		s.publishMove(c, res)
	})
	return err
}

// publishMove sends the position to every follower and announces the move
// to everyone but the mover.
func (s *Server) publishMove(mover *conn, res *service.MoveResult) {
	id := res.Game.ID
	s.hub.broadcast(id, nil, model.NewLoadGame(res.Game.Game))
	s.hub.broadcast(id, mover, model.NewNotification(fmt.Sprintf("%s moved %s", res.Username, res.Move)))
	if text := statusText(res); text != "" {
		s.hub.broadcast(id, nil, model.NewNotification(text))
	}
}

func statusText(res *service.MoveResult) string {
	side := res.Game.Game.Turn()
	name := res.Game.Player(side)
	if name == "" {
		name = side.String()
	}
	switch res.Status {
	case engine.Check:
		return fmt.Sprintf("%s is in check", name)
	case engine.Checkmate:
		return fmt.Sprintf("%s is in checkmate. %s wins", name, winner(res.Game, side.Opposite()))
	case engine.Stalemate:
		return fmt.Sprintf("%s is in stalemate. The game is drawn", name)
	}
	return ""
}

func winner(g *model.GameData, colour chess.Colour) string {
	if name := g.Player(colour); name != "" {
		return name
	}
	return colour.String()
}

// leave removes the caller from the game and tells the others.
func (s *Server) leave(ctx context.Context, c *conn, cmd model.UserGameCommand) error {
	g, username, err := s.games.Leave(ctx, cmd.AuthToken, cmd.GameID)
	if err != nil {
		return err
	}
	if s.hub.following(c) == g.ID {
		s.hub.unfollow(c)
	}
	s.hub.broadcast(g.ID, c, model.NewNotification(fmt.Sprintf("%s left the game", username)))
	return nil
}

// resign ends the game and tells every follower, the resigner included.
func (s *Server) resign(ctx context.Context, c *conn, cmd model.UserGameCommand) error {
	g, username, err := s.games.Resign(ctx, cmd.AuthToken, cmd.GameID)
	if err != nil {
		return err
	}
	s.hub.broadcast(g.ID, nil, model.NewNotification(fmt.Sprintf("%s resigned. The game is over", username)))
	return nil
}
