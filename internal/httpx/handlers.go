package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	chesserrors "github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/service"
)

func errorResult(err error) model.ErrorResult {
	return model.ErrorResult{Message: service.Message(err)}
}

// decode reads a JSON body into v. A malformed or oversized body is a bad
// request.
func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return chesserrors.Wrap(chesserrors.ErrBadRequest, "request too large")
		}
		return chesserrors.Wrap(chesserrors.ErrBadRequest, "invalid json")
	}
	return nil
}

func token(r *http.Request) string {
	return r.Header.Get("Authorization")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.users.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, a)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.users.Login(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, a)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), token(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, struct{}{})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	res, err := s.games.List(r.Context(), token(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	// Authenticate before reading the body so a bad token wins over a bad body.
	if _, err := s.users.Authenticate(r.Context(), token(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req model.CreateGameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.games.Create(r.Context(), token(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	if _, err := s.users.Authenticate(r.Context(), token(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req model.JoinGameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.games.Join(r.Context(), token(r), req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, struct{}{})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, struct{}{})
}
