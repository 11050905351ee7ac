// Package memory provides map-backed stores guarded by sync.RWMutex.
// Data lives for the life of the process.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/lgbarn/chess-server-go/internal/auth"
	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/storage"
)

// New returns in-memory stores.
func New() *storage.Stores {
	return storage.NewStores(NewUserStore(), NewAuthStore(), NewGameStore(), nil)
}

// UserStore keeps accounts by username.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]model.UserData
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]model.UserData)}
}

// Create adds a user.
func (s *UserStore) Create(_ context.Context, user model.UserData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return &errors.StoreError{Op: "create user", Entity: user.Username, Err: errors.ErrAlreadyTaken}
	}
	s.users[user.Username] = user
	return nil
}

// Get returns the user named username.
func (s *UserStore) Get(_ context.Context, username string) (model.UserData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return model.UserData{}, &errors.StoreError{Op: "get user", Entity: username, Err: errors.ErrNotFound}
	}
	return user, nil
}

// Clear removes every user.
func (s *UserStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Clear(s.users)
	return nil
}

// AuthStore keeps sessions by token.
type AuthStore struct {
	mu    sync.RWMutex
	auths map[string]model.AuthData
}

// NewAuthStore creates an empty AuthStore.
func NewAuthStore() *AuthStore {
	return &AuthStore{auths: make(map[string]model.AuthData)}
}

// Create issues a token for username.
func (s *AuthStore) Create(_ context.Context, username string) (model.AuthData, error) {
	a := model.AuthData{Username: username, AuthToken: auth.NewToken()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auths[a.AuthToken] = a
	return a, nil
}

// Get returns the session for token.
func (s *AuthStore) Get(_ context.Context, token string) (model.AuthData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.auths[token]
	if !ok {
		return model.AuthData{}, &errors.StoreError{Op: "get auth", Err: errors.ErrNotFound}
	}
	return a, nil
}

// Delete ends the session for token.
func (s *AuthStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auths[token]; !ok {
		return &errors.StoreError{Op: "delete auth", Err: errors.ErrNotFound}
	}
	delete(s.auths, token)
	return nil
}

// Clear removes every session.
func (s *AuthStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Clear(s.auths)
	return nil
}

// GameStore keeps games by ID. IDs start at 1 and are never reused, even
// after Clear.
type GameStore struct {
	mu     sync.RWMutex
	games  map[int]*model.GameData
	nextID int
}

// NewGameStore creates an empty GameStore.
func NewGameStore() *GameStore {
	return &GameStore{games: make(map[int]*model.GameData), nextID: 1}
}

// Create stores a new game and returns its ID.
func (s *GameStore) Create(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.games[id] = &model.GameData{ID: id, Name: name, Game: engine.NewGame()}
	return id, nil
}

// Get returns a copy of the game.
func (s *GameStore) Get(_ context.Context, id int) (*model.GameData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, notFound("get game", id)
	}
	return copyGame(g), nil
}

// List returns copies of every game ordered by ID.
func (s *GameStore) List(_ context.Context) ([]*model.GameData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := maps.Keys(s.games)
	slices.Sort(ids)
	out := make([]*model.GameData, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyGame(s.games[id]))
	}
	return out, nil
}

// SetPlayer seats or unseats a player.
func (s *GameStore) SetPlayer(_ context.Context, id int, colour chess.Colour, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return notFound("set player", id)
	}
	seat := &g.WhiteUsername
	if colour == chess.Black {
		seat = &g.BlackUsername
	}
	if username != "" && *seat != "" {
		return &errors.StoreError{Op: "set player", Entity: fmt.Sprintf("%d %s", id, colour), Err: errors.ErrAlreadyTaken}
	}
	*seat = username
	return nil
}

// UpdateGame replaces the stored game state.
func (s *GameStore) UpdateGame(_ context.Context, id int, game *engine.Game, over bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return notFound("update game", id)
	}
	g.Game = game.Clone()
	g.Over = over
	return nil
}

// Clear removes every game.
func (s *GameStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Clear(s.games)
	return nil
}

func copyGame(g *model.GameData) *model.GameData {
	c := *g
	c.Game = g.Game.Clone()
	return &c
}

func notFound(op string, id int) error {
	return &errors.StoreError{Op: op, Entity: strconv.Itoa(id), Err: errors.ErrNotFound}
}
