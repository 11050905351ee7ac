// Package client talks to the chess server: ServerFacade for the HTTP API,
// WSFacade for live games, and REPL for the interactive terminal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lgbarn/chess-server-go/internal/model"
)

// ResponseError is a non-200 reply from the server.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// ServerFacade calls the HTTP API.
type ServerFacade struct {
	baseURL string
	http    *http.Client
}

// NewServerFacade creates a facade for the server at baseURL, e.g.
// "http://localhost:8080".
func NewServerFacade(baseURL string) *ServerFacade {
	return &ServerFacade{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the server address.
func (f *ServerFacade) BaseURL() string {
	return f.baseURL
}

// Register creates an account and returns its first session.
func (f *ServerFacade) Register(ctx context.Context, username, password, email string) (model.AuthData, error) {
	var a model.AuthData
	err := f.do(ctx, http.MethodPost, "/user", "",
		model.RegisterRequest{Username: username, Password: password, Email: email}, &a)
	return a, err
}

// Login opens a session.
func (f *ServerFacade) Login(ctx context.Context, username, password string) (model.AuthData, error) {
	var a model.AuthData
	err := f.do(ctx, http.MethodPost, "/session", "", model.LoginRequest{Username: username, Password: password}, &a)
	return a, err
}

// Logout ends the session.
func (f *ServerFacade) Logout(ctx context.Context, token string) error {
	return f.do(ctx, http.MethodDelete, "/session", token, nil, nil)
}

// CreateGame creates a game and returns its server ID.
func (f *ServerFacade) CreateGame(ctx context.Context, token, name string) (int, error) {
	var res model.CreateGameResult
	err := f.do(ctx, http.MethodPost, "/game", token, model.CreateGameRequest{GameName: name}, &res)
	return res.GameID, err
}

// ListGames returns every game on the server.
func (f *ServerFacade) ListGames(ctx context.Context, token string) ([]model.GameSummary, error) {
	var res model.ListGamesResult
	if err := f.do(ctx, http.MethodGet, "/game", token, nil, &res); err != nil {
		return nil, err
	}
	return res.Games, nil
}

// JoinGame takes the colour seat ("WHITE" or "BLACK") in game id.
func (f *ServerFacade) JoinGame(ctx context.Context, token, colour string, id int) error {
	return f.do(ctx, http.MethodPut, "/game", token, model.JoinGameRequest{PlayerColor: colour, GameID: id}, nil)
}

// Clear deletes everything on the server.
func (f *ServerFacade) Clear(ctx context.Context) error {
	return f.do(ctx, http.MethodDelete, "/db", "", nil, nil)
}

func (f *ServerFacade) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var res model.ErrorResult
		_ = json.NewDecoder(resp.Body).Decode(&res)
		return &ResponseError{Status: resp.StatusCode, Message: res.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
