package service

import (
	"context"
	"log/slog"

	"github.com/lgbarn/chess-server-go/internal/auth"
	"github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/storage"
)

// UserService registers accounts and manages sessions.
type UserService struct {
	stores *storage.Stores
	cost   int
	log    *slog.Logger
}

// NewUserService creates a UserService hashing passwords at the given
// bcrypt cost.
func NewUserService(stores *storage.Stores, cost int, logger *slog.Logger) *UserService {
	return &UserService{stores: stores, cost: cost, log: logger}
}

// Register creates an account and logs it in.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthData, error) {
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return model.AuthData{}, badRequest("username, password and email are required")
	}

	hash, err := auth.HashPassword(req.Password, s.cost)
	if err != nil {
		return model.AuthData{}, errors.Wrap(err, "register")
	}
	err = s.stores.Users.Create(ctx, model.UserData{Username: req.Username, Password: hash, Email: req.Email})
	if errors.Is(err, errors.ErrAlreadyTaken) {
		return model.AuthData{}, errors.Wrapf(errors.ErrAlreadyTaken, "username %q", req.Username)
	}
	if err != nil {
		return model.AuthData{}, err
	}

	s.log.Info("user registered", "username", req.Username)
	return s.stores.Auths.Create(ctx, req.Username)
}

// Login checks the password and opens a new session.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (model.AuthData, error) {
	if req.Username == "" || req.Password == "" {
		return model.AuthData{}, badRequest("username and password are required")
	}

	user, err := s.stores.Users.Get(ctx, req.Username)
	if errors.Is(err, errors.ErrNotFound) {
		return model.AuthData{}, errors.Wrap(errors.ErrUnauthorized, "login")
	}
	if err != nil {
		return model.AuthData{}, err
	}

	ok, err := auth.CheckPassword(user.Password, req.Password)
	if err != nil {
		return model.AuthData{}, errors.Wrapf(err, "login %s", req.Username)
	}
	if !ok {
		return model.AuthData{}, errors.Wrap(errors.ErrUnauthorized, "login")
	}

	s.log.Debug("user logged in", "username", req.Username)
	return s.stores.Auths.Create(ctx, req.Username)
}

// Logout ends the session for token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	a, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.stores.Auths.Delete(ctx, token); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.Wrap(errors.ErrUnauthorized, "logout")
		}
		return err
	}
	s.log.Debug("user logged out", "username", a.Username)
	return nil
}

// Authenticate returns the session for token. Unknown or empty tokens fail
// with ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (model.AuthData, error) {
	if token == "" {
		return model.AuthData{}, errors.Wrap(errors.ErrUnauthorized, "missing auth token")
	}
	a, err := s.stores.Auths.Get(ctx, token)
	if errors.Is(err, errors.ErrNotFound) {
		return model.AuthData{}, errors.Wrap(errors.ErrUnauthorized, "unknown auth token")
	}
	return a, err
}

// Clear deletes every user, session and game.
func (s *UserService) Clear(ctx context.Context) error {
	if err := s.stores.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("database cleared")
	return nil
}
