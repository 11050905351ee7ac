// Package model defines the records kept by the server and the request,
// result and websocket message shapes exchanged with clients.
package model

import (
	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/output"
)

// UserData is a registered account. Password holds the bcrypt hash.
type UserData struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthData binds a session token to a user.
type AuthData struct {
	Username  string `json:"username"`
	AuthToken string `json:"authToken"`
}

// GameData is a stored game with its seats.
type GameData struct {
	ID            int
	WhiteUsername string
	BlackUsername string
	Name          string
	Game          *engine.Game
	Over          bool
}

// Player returns the username seated as colour, or "".
func (g *GameData) Player(colour chess.Colour) string {
	if colour == chess.White {
		return g.WhiteUsername
	}
	return g.BlackUsername
}

// ColourOf returns the colour username plays in this game.
func (g *GameData) ColourOf(username string) (chess.Colour, bool) {
	switch username {
	case "":
		return chess.White, false
	case g.WhiteUsername:
		return chess.White, true
	case g.BlackUsername:
		return chess.Black, true
	}
	return chess.White, false
}

// Summary returns the listing form of the game.
func (g *GameData) Summary() GameSummary {
	return GameSummary{
		GameID:        g.ID,
		WhiteUsername: g.WhiteUsername,
		BlackUsername: g.BlackUsername,
		GameName:      g.Name,
		Over:          g.Over,
	}
}

// RegisterRequest is the body of POST /user.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest is the body of POST /session.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the body of POST /game.
type CreateGameRequest struct {
	GameName string `json:"gameName"`
}

// CreateGameResult is the response of POST /game.
type CreateGameResult struct {
	GameID int `json:"gameID"`
}

// JoinGameRequest is the body of PUT /game.
type JoinGameRequest struct {
	PlayerColor string `json:"playerColor"`
	GameID      int    `json:"gameID"`
}

// GameSummary is one entry of a game listing.
type GameSummary struct {
	GameID        int    `json:"gameID"`
	WhiteUsername string `json:"whiteUsername,omitempty"`
	BlackUsername string `json:"blackUsername,omitempty"`
	GameName      string `json:"gameName"`
	Over          bool   `json:"over,omitempty"`
}

// ListGamesResult is the response of GET /game.
type ListGamesResult struct {
	Games []GameSummary `json:"games"`
}

// ErrorResult is the body of every failed HTTP request.
type ErrorResult struct {
	Message string `json:"message"`
}

// CommandType names a websocket command.
type CommandType string

const (
	Connect  CommandType = "CONNECT"
	MakeMove CommandType = "MAKE_MOVE"
	Leave    CommandType = "LEAVE"
	Resign   CommandType = "RESIGN"
)

// UserGameCommand is a message from client to server over the websocket.
type UserGameCommand struct {
	CommandType CommandType `json:"commandType"`
	AuthToken   string      `json:"authToken"`
	GameID      int         `json:"gameID"`
	Move        *chess.Move `json:"move,omitempty"`
}

// ServerMessageType names a websocket message.
type ServerMessageType string

const (
	LoadGame     ServerMessageType = "LOAD_GAME"
	Notification ServerMessageType = "NOTIFICATION"
	Error        ServerMessageType = "ERROR"
)

// ServerMessage is a message from server to client over the websocket.
type ServerMessage struct {
	ServerMessageType ServerMessageType `json:"serverMessageType"`
	Game              *output.JSONGame  `json:"game,omitempty"`
	Message           string            `json:"message,omitempty"`
	ErrorMessage      string            `json:"errorMessage,omitempty"`
}

// NewLoadGame builds a LOAD_GAME message carrying the game state.
func NewLoadGame(game *engine.Game) ServerMessage {
	return ServerMessage{ServerMessageType: LoadGame, Game: output.GameToJSON(game)}
}

// NewNotification builds a NOTIFICATION message.
func NewNotification(text string) ServerMessage {
	return ServerMessage{ServerMessageType: Notification, Message: text}
}

// NewError builds an ERROR message. The text is prefixed with "Error: ".
func NewError(text string) ServerMessage {
	return ServerMessage{ServerMessageType: Error, ErrorMessage: "Error: " + text}
}
