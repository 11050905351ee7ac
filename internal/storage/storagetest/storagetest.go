// Package storagetest holds a conformance suite run against every storage
// backend.
package storagetest

import (
	"context"
	"testing"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/storage"
	"github.com/lgbarn/chess-server-go/internal/testutil"
)

// Run exercises a backend. newStores must return empty stores; Run closes
// them when each subtest ends.
func Run(t *testing.T, newStores func(t *testing.T) *storage.Stores) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s *storage.Stores)
	}{
		{"Users", testUsers},
		{"Auths", testAuths},
		{"GameCreateAndList", testGameCreateAndList},
		{"SetPlayer", testSetPlayer},
		{"UpdateGame", testUpdateGame},
		{"GamesAreCopies", testGamesAreCopies},
		{"NotFound", testNotFound},
		{"Clear", testClear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStores(t)
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s)
		})
	}
}

func testUsers(t *testing.T, s *storage.Stores) {
	ctx := context.Background()
	bob := model.UserData{Username: "bob", Password: "hash-b", Email: "bob@example.com"}
	alice := model.UserData{Username: "alice", Password: "hash-a", Email: "alice@example.com"}

	testutil.AssertNoError(t, s.Users.Create(ctx, bob))
	testutil.AssertNoError(t, s.Users.Create(ctx, alice))

	err := s.Users.Create(ctx, model.UserData{Username: "bob", Password: "x", Email: "y"})
	testutil.AssertErrorIs(t, err, errors.ErrAlreadyTaken)

	got, err := s.Users.Get(ctx, "bob")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, bob)

	got, err = s.Users.Get(ctx, "alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, alice)
}

func testAuths(t *testing.T, s *storage.Stores) {
	ctx := context.Background()

	a1, err := s.Auths.Create(ctx, "bob")
	testutil.AssertNoError(t, err)
	a2, err := s.Auths.Create(ctx, "bob")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, a1.AuthToken != a2.AuthToken, "tokens must be unique")
	testutil.AssertEqual(t, a1.Username, "bob")

	got, err := s.Auths.Get(ctx, a1.AuthToken)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, a1)

	testutil.AssertNoError(t, s.Auths.Delete(ctx, a1.AuthToken))
	_, err = s.Auths.Get(ctx, a1.AuthToken)
	testutil.AssertErrorIs(t, err, errors.ErrNotFound)
	testutil.AssertErrorIs(t, s.Auths.Delete(ctx, a1.AuthToken), errors.ErrNotFound)

	// The other session survives.
	_, err = s.Auths.Get(ctx, a2.AuthToken)
	testutil.AssertNoError(t, err)
}

func testGameCreateAndList(t *testing.T, s *storage.Stores) {
	ctx := context.Background()

	id1, err := s.Games.Create(ctx, "first")
	testutil.AssertNoError(t, err)
	id2, err := s.Games.Create(ctx, "second")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, id1 > 0 && id2 > id1, "ids %d, %d", id1, id2)

	g, err := s.Games.Get(ctx, id1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.Name, "first")
	testutil.AssertEqual(t, g.WhiteUsername, "")
	testutil.AssertEqual(t, g.BlackUsername, "")
	testutil.AssertFalse(t, g.Over)
	testutil.AssertEqual(t, g.Game.FEN(), engine.NewGame().FEN())

	games, err := s.Games.List(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertLen(t, games, 2)
	testutil.AssertEqual(t, games[0].ID, id1)
	testutil.AssertEqual(t, games[1].ID, id2)
}

func testSetPlayer(t *testing.T, s *storage.Stores) {
	ctx := context.Background()
	id, err := s.Games.Create(ctx, "g")
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, s.Games.SetPlayer(ctx, id, chess.White, "alice"))
	testutil.AssertNoError(t, s.Games.SetPlayer(ctx, id, chess.Black, "bob"))

	err = s.Games.SetPlayer(ctx, id, chess.White, "carol")
	testutil.AssertErrorIs(t, err, errors.ErrAlreadyTaken)

	g, err := s.Games.Get(ctx, id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.WhiteUsername, "alice")
	testutil.AssertEqual(t, g.BlackUsername, "bob")

	// Vacating frees the seat for someone else.
	testutil.AssertNoError(t, s.Games.SetPlayer(ctx, id, chess.White, ""))
	testutil.AssertNoError(t, s.Games.SetPlayer(ctx, id, chess.White, "carol"))

	g, err = s.Games.Get(ctx, id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.WhiteUsername, "carol")
}

func testUpdateGame(t *testing.T, s *storage.Stores) {
	ctx := context.Background()
	id, err := s.Games.Create(ctx, "g")
	testutil.AssertNoError(t, err)

	game := engine.NewGame()
	testutil.PlayMoves(t, game, "e2e4", "e7e5")
	testutil.AssertNoError(t, s.Games.UpdateGame(ctx, id, game, true))

	g, err := s.Games.Get(ctx, id)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, g.Game.Equal(game), "stored %s, want %s", g.Game.FEN(), game.FEN())
	testutil.AssertTrue(t, g.Over)
}

func testGamesAreCopies(t *testing.T, s *storage.Stores) {
	ctx := context.Background()
	id, err := s.Games.Create(ctx, "g")
	testutil.AssertNoError(t, err)

	g, err := s.Games.Get(ctx, id)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, g.Game.MakeMove(testutil.MustMove(t, "e2e4")))
	g.WhiteUsername = "mallory"

	again, err := s.Games.Get(ctx, id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, again.Game.Turn(), chess.White)
	testutil.AssertEqual(t, again.WhiteUsername, "")
}

func testNotFound(t *testing.T, s *storage.Stores) {
	ctx := context.Background()

	_, err := s.Users.Get(ctx, "nobody")
	testutil.AssertErrorIs(t, err, errors.ErrNotFound)

	_, err = s.Auths.Get(ctx, "no-such-token")
	testutil.AssertErrorIs(t, err, errors.ErrNotFound)

	_, err = s.Games.Get(ctx, 42)
	testutil.AssertErrorIs(t, err, errors.ErrNotFound)

	err = s.Games.SetPlayer(ctx, 42, chess.White, "alice")
	testutil.AssertErrorIs(t, err, errors.ErrNotFound)

	err = s.Games.UpdateGame(ctx, 42, engine.NewGame(), false)
	testutil.AssertErrorIs(t, err, errors.ErrNotFound)
}

func testClear(t *testing.T, s *storage.Stores) {
	ctx := context.Background()
	testutil.AssertNoError(t, s.Users.Create(ctx, model.UserData{Username: "bob", Password: "h", Email: "e"}))
	a, err := s.Auths.Create(ctx, "bob")
	testutil.AssertNoError(t, err)
	id, err := s.Games.Create(ctx, "g")
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, s.Clear(ctx))

	_, err = s.Users.Get(ctx, "bob")
	testutil.AssertErrorIs(t, err, errors.ErrNotFound)
	games, err := s.Games.List(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertLen(t, games, 0)
	_, err = s.Auths.Get(ctx, a.AuthToken)
	testutil.AssertErrorIs(t, err, errors.ErrNotFound)

	// IDs are not reused after a clear.
	next, err := s.Games.Create(ctx, "g2")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, next > id, "id %d reused after clear (previous %d)", next, id)
}
