package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/storage"
	"github.com/lgbarn/chess-server-go/internal/worker"
)

// GameService manages games. MakeMove, Leave and Resign for one game run
// on the pool worker that owns the game ID, so they never interleave.
type GameService struct {
	games storage.GameStore
	users *UserService
	pool  *worker.Pool
	log   *slog.Logger
}

// NewGameService creates a GameService. The pool must already be started.
func NewGameService(games storage.GameStore, users *UserService, pool *worker.Pool, logger *slog.Logger) *GameService {
	return &GameService{games: games, users: users, pool: pool, log: logger}
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Game     *model.GameData
	Username string
	Move     chess.Move
	// Status is the position from the point of view of the side now to move.
	Status engine.Status
}

// Create stores a new game named req.GameName.
func (s *GameService) Create(ctx context.Context, token string, req model.CreateGameRequest) (model.CreateGameResult, error) {
	a, err := s.users.Authenticate(ctx, token)
	if err != nil {
		return model.CreateGameResult{}, err
	}
	if req.GameName == "" {
		return model.CreateGameResult{}, badRequest("gameName is required")
	}
	id, err := s.games.Create(ctx, req.GameName)
	if err != nil {
		return model.CreateGameResult{}, err
	}
	s.log.Info("game created", "game", id, "name", req.GameName, "by", a.Username)
	return model.CreateGameResult{GameID: id}, nil
}

// List returns every game.
func (s *GameService) List(ctx context.Context, token string) (model.ListGamesResult, error) {
	if _, err := s.users.Authenticate(ctx, token); err != nil {
		return model.ListGamesResult{}, err
	}
	games, err := s.games.List(ctx)
	if err != nil {
		return model.ListGamesResult{}, err
	}
	res := model.ListGamesResult{Games: make([]model.GameSummary, 0, len(games))}
	for _, g := range games {
		res.Games = append(res.Games, g.Summary())
	}
	return res, nil
}

// Follow loads a game and passes it, with the caller's session, to fn on
// the worker that owns the game. Moves for the game wait until fn returns,
// so fn sees the latest position and nothing is published before it.
func (s *GameService) Follow(ctx context.Context, token string, id int, fn func(*model.GameData, model.AuthData) error) error {
	a, err := s.users.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	return s.pool.Do(ctx, int64(id), func() error {
		g, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		return fn(g, a)
	})
}

// Join seats the caller as req.PlayerColor, which must be WHITE or BLACK.
func (s *GameService) Join(ctx context.Context, token string, req model.JoinGameRequest) error {
	a, err := s.users.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	var colour chess.Colour
	switch req.PlayerColor {
	case "WHITE":
		colour = chess.White
	case "BLACK":
		colour = chess.Black
	default:
		return badRequest("playerColor must be WHITE or BLACK, got %q", req.PlayerColor)
	}

	err = s.games.SetPlayer(ctx, req.GameID, colour, a.Username)
	switch {
	case errors.Is(err, errors.ErrNotFound):
		return badRequest("game %d does not exist", req.GameID)
	case errors.Is(err, errors.ErrAlreadyTaken):
		return errors.Wrapf(errors.ErrAlreadyTaken, "%s in game %d", colour, req.GameID)
	case err != nil:
		return err
	}
	s.log.Info("player joined", "game", req.GameID, "colour", colour, "username", a.Username)
	return nil
}

// MakeMove plays move for the caller, who must hold the seat of the side
// to move in an unfinished game. A move that mates or stalemates the
// opponent ends the game. If publish is not nil it runs on the game's
// worker once the move is stored, so positions go out in the order played.
func (s *GameService) MakeMove(ctx context.Context, token string, id int, move chess.Move, publish func(*MoveResult)) (*MoveResult, error) {
	a, err := s.users.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	var res *MoveResult
	err = s.pool.Do(ctx, int64(id), func() error {
		g, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if g.Over {
			return errors.Wrapf(errors.ErrGameOver, "game %d", id)
		}
		colour, ok := g.ColourOf(a.Username)
		if !ok {
			return badRequest("observers cannot move")
		}
		if colour != g.Game.Turn() {
			return &errors.MoveError{Err: errors.ErrIllegalMove, GameID: id, Move: move.String(),
				Reason: fmt.Sprintf("it is %s's turn", g.Game.Turn())}
		}

		if err := g.Game.MakeMove(move); err != nil {
			var me *errors.MoveError
			if errors.As(err, &me) {
				me.GameID = id
			}
			return err
		}

		status, err := g.Game.Status(g.Game.Turn())
		if err != nil {
			return err
		}
		g.Over = status.Terminal()
		if err := s.games.UpdateGame(ctx, id, g.Game, g.Over); err != nil {
			return err
		}

		s.log.Debug("move played", "game", id, "username", a.Username, "move", move, "status", status)
		res = &MoveResult{Game: g, Username: a.Username, Move: move, Status: status}
		if publish != nil {
			publish(res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Leave vacates the caller's seat, if any, and returns the game and the
// caller's username. Observers may leave too.
func (s *GameService) Leave(ctx context.Context, token string, id int) (*model.GameData, string, error) {
	a, err := s.users.Authenticate(ctx, token)
	if err != nil {
		return nil, "", err
	}

	var g *model.GameData
	err = s.pool.Do(ctx, int64(id), func() error {
		var err error
		if g, err = s.load(ctx, id); err != nil {
			return err
		}
		colour, ok := g.ColourOf(a.Username)
		if !ok {
			return nil
		}
		if err := s.games.SetPlayer(ctx, id, colour, ""); err != nil {
			return err
		}
		if colour == chess.White {
			g.WhiteUsername = ""
		} else {
			g.BlackUsername = ""
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user left game", "game", id, "username", a.Username)
	return g, a.Username, nil
}

// Resign ends the game. Only a seated player may resign, and only once.
func (s *GameService) Resign(ctx context.Context, token string, id int) (*model.GameData, string, error) {
	a, err := s.users.Authenticate(ctx, token)
	if err != nil {
		return nil, "", err
	}

	var g *model.GameData
	err = s.pool.Do(ctx, int64(id), func() error {
		var err error
		if g, err = s.load(ctx, id); err != nil {
			return err
		}
		if g.Over {
			return errors.Wrapf(errors.ErrGameOver, "game %d", id)
		}
		if _, ok := g.ColourOf(a.Username); !ok {
			return badRequest("observers cannot resign")
		}
		g.Over = true
		return s.games.UpdateGame(ctx, id, g.Game, true)
	})
	if err != nil {
		return nil, "", err
	}
	s.log.Info("player resigned", "game", id, "username", a.Username)
	return g, a.Username, nil
}

// load fetches a game, reporting a missing one as a bad request.
func (s *GameService) load(ctx context.Context, id int) (*model.GameData, error) {
	g, err := s.games.Get(ctx, id)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, badRequest("game %d does not exist", id)
	}
	return g, err
}
