// Package sqlstore provides SQLite-backed stores using the pure-Go
// modernc.org/sqlite driver. Game state is stored as the JSON produced by
// the output package.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/lgbarn/chess-server-go/internal/auth"
	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/output"
	"github.com/lgbarn/chess-server-go/internal/storage"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password TEXT NOT NULL,
		email    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auths (
		token    TEXT PRIMARY KEY,
		username TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		white_username TEXT,
		black_username TEXT,
		name           TEXT NOT NULL,
		state          TEXT NOT NULL,
		over           INTEGER NOT NULL DEFAULT 0
	)`,
}

// Open opens (creating if needed) the database at dsn and returns stores
// over it. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, dsn string) (*storage.Stores, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &errors.StoreError{Op: "open", Entity: dsn, Err: err}
	}
	// One connection: each ":memory:" connection is its own database, and
	// SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, &errors.StoreError{Op: "create schema", Entity: dsn, Err: err}
		}
	}
	return storage.NewStores(&UserStore{db: db}, &AuthStore{db: db}, &GameStore{db: db}, db.Close), nil
}

// UserStore keeps accounts in the users table.
type UserStore struct {
	db *sql.DB
}

// Create inserts a user.
func (s *UserStore) Create(ctx context.Context, user model.UserData) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, email) VALUES (?, ?, ?) ON CONFLICT(username) DO NOTHING`,
		user.Username, user.Password, user.Email)
	if err != nil {
		return &errors.StoreError{Op: "create user", Entity: user.Username, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &errors.StoreError{Op: "create user", Entity: user.Username, Err: errors.ErrAlreadyTaken}
	}
	return nil
}

// Get returns the user named username.
func (s *UserStore) Get(ctx context.Context, username string) (model.UserData, error) {
	var u model.UserData
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password, email FROM users WHERE username = ?`, username).
		Scan(&u.Username, &u.Password, &u.Email)
	if err != nil {
		return model.UserData{}, wrap("get user", username, err)
	}
	return u, nil
}

// Clear deletes every user.
func (s *UserStore) Clear(ctx context.Context) error {
	return exec(ctx, s.db, "clear users", `DELETE FROM users`)
}

// AuthStore keeps sessions in the auths table.
type AuthStore struct {
	db *sql.DB
}

// Create issues a token for username.
func (s *AuthStore) Create(ctx context.Context, username string) (model.AuthData, error) {
	a := model.AuthData{Username: username, AuthToken: auth.NewToken()}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO auths (token, username) VALUES (?, ?)`, a.AuthToken, a.Username); err != nil {
		return model.AuthData{}, &errors.StoreError{Op: "create auth", Entity: username, Err: err}
	}
	return a, nil
}

// Get returns the session for token.
func (s *AuthStore) Get(ctx context.Context, token string) (model.AuthData, error) {
	var a model.AuthData
	err := s.db.QueryRowContext(ctx,
		`SELECT token, username FROM auths WHERE token = ?`, token).
		Scan(&a.AuthToken, &a.Username)
	if err != nil {
		return model.AuthData{}, wrap("get auth", "", err)
	}
	return a, nil
}

// Delete ends the session for token.
func (s *AuthStore) Delete(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM auths WHERE token = ?`, token)
	if err != nil {
		return wrap("delete auth", "", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &errors.StoreError{Op: "delete auth", Err: errors.ErrNotFound}
	}
	return nil
}

// Clear deletes every session.
func (s *AuthStore) Clear(ctx context.Context) error {
	return exec(ctx, s.db, "clear auths", `DELETE FROM auths`)
}

// GameStore keeps games in the games table.
type GameStore struct {
	db *sql.DB
}

// Create inserts a game at the starting position.
func (s *GameStore) Create(ctx context.Context, name string) (int, error) {
	state, err := output.MarshalGame(engine.NewGame())
	if err != nil {
		return 0, &errors.StoreError{Op: "create game", Entity: name, Err: err}
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO games (name, state) VALUES (?, ?)`, name, string(state))
	if err != nil {
		return 0, &errors.StoreError{Op: "create game", Entity: name, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &errors.StoreError{Op: "create game", Entity: name, Err: err}
	}
	return int(id), nil
}

const gameColumns = `id, white_username, black_username, name, state, over`

// Get returns the game with the given ID.
func (s *GameStore) Get(ctx context.Context, id int) (*model.GameData, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if err != nil {
		return nil, wrap("get game", gameEntity(id), err)
	}
	return g, nil
}

// List returns every game ordered by ID.
func (s *GameStore) List(ctx context.Context) ([]*model.GameData, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY id`)
	if err != nil {
		return nil, wrap("list games", "", err)
	}
	defer rows.Close()

	var out []*model.GameData
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, wrap("list games", "", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list games", "", err)
	}
	return out, nil
}

// SetPlayer seats or unseats a player. The seat check and the write are a
// single UPDATE, so two racing joins cannot both succeed.
func (s *GameStore) SetPlayer(ctx context.Context, id int, colour chess.Colour, username string) error {
	column := "white_username"
	if colour == chess.Black {
		column = "black_username"
	}

	var res sql.Result
	var err error
	if username == "" {
		res, err = s.db.ExecContext(ctx, `UPDATE games SET `+column+` = NULL WHERE id = ?`, id)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE games SET `+column+` = ? WHERE id = ? AND (`+column+` IS NULL OR `+column+` = '')`,
			username, id)
	}
	if err != nil {
		return wrap("set player", gameEntity(id), err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Nothing changed: either the game is missing or the seat is taken.
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if username == "" {
		return nil
	}
	return &errors.StoreError{Op: "set player", Entity: fmt.Sprintf("%d %s", id, colour), Err: errors.ErrAlreadyTaken}
}

// UpdateGame replaces the stored game state.
func (s *GameStore) UpdateGame(ctx context.Context, id int, game *engine.Game, over bool) error {
	state, err := output.MarshalGame(game)
	if err != nil {
		return &errors.StoreError{Op: "update game", Entity: gameEntity(id), Err: err}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE games SET state = ?, over = ? WHERE id = ?`, string(state), over, id)
	if err != nil {
		return wrap("update game", gameEntity(id), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &errors.StoreError{Op: "update game", Entity: gameEntity(id), Err: errors.ErrNotFound}
	}
	return nil
}

// Clear deletes every game.
func (s *GameStore) Clear(ctx context.Context) error {
	return exec(ctx, s.db, "clear games", `DELETE FROM games`)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*model.GameData, error) {
	var (
		g            model.GameData
		white, black sql.NullString
		state        string
	)
	if err := row.Scan(&g.ID, &white, &black, &g.Name, &state, &g.Over); err != nil {
		return nil, err
	}
	g.WhiteUsername = white.String
	g.BlackUsername = black.String

	game, err := output.UnmarshalGame([]byte(state))
	if err != nil {
		return nil, err
	}
	g.Game = game
	return &g, nil
}

func gameEntity(id int) string {
	return strconv.Itoa(id)
}

// wrap converts a driver error, mapping sql.ErrNoRows to ErrNotFound.
func wrap(op, entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		err = errors.ErrNotFound
	}
	return &errors.StoreError{Op: op, Entity: entity, Err: err}
}

func exec(ctx context.Context, db *sql.DB, op, query string) error {
	if _, err := db.ExecContext(ctx, query); err != nil {
		return &errors.StoreError{Op: op, Err: err}
	}
	return nil
}
