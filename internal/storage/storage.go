// Package storage defines the persistence interfaces for users, sessions
// and games. Backends live in the memory and sqlstore subpackages.
//
// Lookups of absent keys fail with errors.ErrNotFound; creating a taken
// username or seat fails with errors.ErrAlreadyTaken.
package storage

import (
	"context"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/model"
)

// UserStore persists registered accounts.
type UserStore interface {
	Create(ctx context.Context, user model.UserData) error
	Get(ctx context.Context, username string) (model.UserData, error)
	Clear(ctx context.Context) error
}

// AuthStore persists session tokens.
type AuthStore interface {
	// Create issues a new token for username.
	Create(ctx context.Context, username string) (model.AuthData, error)
	Get(ctx context.Context, token string) (model.AuthData, error)
	Delete(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// GameStore persists games. Returned GameData values are copies; changes
// reach the store only through SetPlayer and UpdateGame.
type GameStore interface {
	// Create stores a new game at the starting position and returns its ID.
	Create(ctx context.Context, name string) (int, error)
	Get(ctx context.Context, id int) (*model.GameData, error)
	// List returns every game ordered by ID.
	List(ctx context.Context) ([]*model.GameData, error)
	// SetPlayer seats username as colour. An occupied seat fails with
	// ErrAlreadyTaken. An empty username vacates the seat.
	SetPlayer(ctx context.Context, id int, colour chess.Colour, username string) error
	// UpdateGame replaces the game state and its over flag.
	UpdateGame(ctx context.Context, id int, game *engine.Game, over bool) error
	Clear(ctx context.Context) error
}

// Stores bundles one backend's stores.
type Stores struct {
	Users UserStore
	Auths AuthStore
	Games GameStore

	closer func() error
}

// NewStores bundles the given stores. closer, if not nil, is called by Close.
func NewStores(users UserStore, auths AuthStore, games GameStore, closer func() error) *Stores {
	return &Stores{Users: users, Auths: auths, Games: games, closer: closer}
}

// Clear empties every store.
func (s *Stores) Clear(ctx context.Context) error {
	if err := s.Auths.Clear(ctx); err != nil {
		return err
	}
	if err := s.Games.Clear(ctx); err != nil {
		return err
	}
	return s.Users.Clear(ctx)
}

// Close releases the backend.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
