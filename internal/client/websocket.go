package client

import (
	"context"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/model"
)

// WSFacade sends game commands over a websocket and hands every server
// message to a callback.
type WSFacade struct {
	conn *websocket.Conn
	done chan struct{}

	writeMu sync.Mutex
	err     error
}

// DialWS opens the websocket of the server at baseURL. onMessage runs on
// the facade's reader goroutine for each message until the connection
// closes.
func DialWS(ctx context.Context, baseURL string, onMessage func(model.ServerMessage)) (*WSFacade, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/ws"
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	f := &WSFacade{conn: conn, done: make(chan struct{})}
	go f.read(onMessage)
	return f, nil
}

func (f *WSFacade) read(onMessage func(model.ServerMessage)) {
	defer close(f.done)
	for {
		var msg model.ServerMessage
		if err := f.conn.ReadJSON(&msg); err != nil {
			f.err = err
			return
		}
		onMessage(msg)
	}
}

// Done is closed once the connection stops delivering messages.
func (f *WSFacade) Done() <-chan struct{} {
	return f.done
}

// Err returns why the reader stopped. Valid after Done is closed.
func (f *WSFacade) Err() error {
	<-f.done
	return f.err
}

// Send writes one command.
func (f *WSFacade) Send(cmd model.UserGameCommand) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.conn.WriteJSON(cmd)
}

// Connect starts following game id.
func (f *WSFacade) Connect(token string, id int) error {
	return f.Send(model.UserGameCommand{CommandType: model.Connect, AuthToken: token, GameID: id})
}

// MakeMove plays move in game id.
func (f *WSFacade) MakeMove(token string, id int, move chess.Move) error {
	return f.Send(model.UserGameCommand{CommandType: model.MakeMove, AuthToken: token, GameID: id, Move: &move})
}

// Leave stops following game id and gives up any seat in it.
func (f *WSFacade) Leave(token string, id int) error {
	return f.Send(model.UserGameCommand{CommandType: model.Leave, AuthToken: token, GameID: id})
}

// Resign concedes game id.
func (f *WSFacade) Resign(token string, id int) error {
	return f.Send(model.UserGameCommand{CommandType: model.Resign, AuthToken: token, GameID: id})
}

// Close sends a close frame and closes the connection.
func (f *WSFacade) Close() error {
	f.writeMu.Lock()
	_ = f.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	f.writeMu.Unlock()
	return f.conn.Close()
}
