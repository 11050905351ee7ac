package service_test

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/config"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/service"
	"github.com/lgbarn/chess-server-go/internal/storage"
	"github.com/lgbarn/chess-server-go/internal/storage/memory"
	"github.com/lgbarn/chess-server-go/internal/testutil"
	"github.com/lgbarn/chess-server-go/internal/worker"
)

type fixture struct {
	stores *storage.Stores
	users  *service.UserService
	games  *service.GameService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := config.NewConfigBuilder().WithLogOutput(io.Discard).Build().NewLogger()
	stores := memory.New()
	pool := worker.NewPool(2, 8)
	pool.Start()
	t.Cleanup(pool.Close)

	users := service.NewUserService(stores, bcrypt.MinCost, logger)
	return &fixture{
		stores: stores,
		users:  users,
		games:  service.NewGameService(stores.Games, users, pool, logger),
	}
}

func (f *fixture) register(t *testing.T, name string) string {
	t.Helper()
	a, err := f.users.Register(context.Background(), model.RegisterRequest{
		Username: name, Password: name + "-pw", Email: name + "@example.com",
	})
	testutil.AssertNoError(t, err)
	return a.AuthToken
}

// seatedGame creates a game with alice as White and bob as Black.
func (f *fixture) seatedGame(t *testing.T) (id int, alice, bob string) {
	t.Helper()
	ctx := context.Background()
	alice = f.register(t, "alice")
	bob = f.register(t, "bob")
	res, err := f.games.Create(ctx, alice, model.CreateGameRequest{GameName: "match"})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, f.games.Join(ctx, alice, model.JoinGameRequest{PlayerColor: "WHITE", GameID: res.GameID}))
	testutil.AssertNoError(t, f.games.Join(ctx, bob, model.JoinGameRequest{PlayerColor: "BLACK", GameID: res.GameID}))
	return res.GameID, alice, bob
}

func (f *fixture) move(t *testing.T, token string, id int, move string) (*service.MoveResult, error) {
	t.Helper()
	return f.games.MakeMove(context.Background(), token, id, testutil.MustMove(t, move), nil)
}

// game reads a game through Follow.
func (f *fixture) game(t *testing.T, token string, id int) *model.GameData {
	t.Helper()
	var got *model.GameData
	err := f.games.Follow(context.Background(), token, id, func(g *model.GameData, _ model.AuthData) error {
		got = g
		return nil
	})
	testutil.AssertNoError(t, err)
	return got
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"bad request", errors.Wrap(errors.ErrBadRequest, "x"), http.StatusBadRequest},
		{"not found", errors.ErrNotFound, http.StatusBadRequest},
		{"illegal move", &errors.MoveError{Err: errors.ErrIllegalMove}, http.StatusBadRequest},
		{"game over", errors.ErrGameOver, http.StatusBadRequest},
		{"unauthorized", errors.Wrap(errors.ErrUnauthorized, "login"), http.StatusUnauthorized},
		{"already taken", &errors.StoreError{Op: "create user", Err: errors.ErrAlreadyTaken}, http.StatusForbidden},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, service.HTTPStatus(tt.err), tt.want)
		})
	}
}

func TestMessage(t *testing.T) {
	testutil.AssertEqual(t, service.Message(errors.ErrUnauthorized), "Error: unauthorized")
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.users.Register(ctx, model.RegisterRequest{Username: "alice", Password: "pw", Email: "a@example.com"})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, a.Username, "alice")
	testutil.AssertTrue(t, a.AuthToken != "")

	stored, err := f.stores.Users.Get(ctx, "alice")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, stored.Password != "pw", "password stored in clear")

	_, err = f.users.Register(ctx, model.RegisterRequest{Username: "alice", Password: "x", Email: "y"})
	testutil.AssertErrorIs(t, err, errors.ErrAlreadyTaken)

	for _, req := range []model.RegisterRequest{
		{Password: "pw", Email: "e"},
		{Username: "u", Email: "e"},
		{Username: "u", Password: "pw"},
	} {
		_, err := f.users.Register(ctx, req)
		testutil.AssertErrorIs(t, err, errors.ErrBadRequest, "request %+v", req)
	}
}

func TestLoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.users.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong"})
	testutil.AssertErrorIs(t, err, errors.ErrUnauthorized)
	_, err = f.users.Login(ctx, model.LoginRequest{Username: "nobody", Password: "pw"})
	testutil.AssertErrorIs(t, err, errors.ErrUnauthorized)
	_, err = f.users.Login(ctx, model.LoginRequest{Username: "alice"})
	testutil.AssertErrorIs(t, err, errors.ErrBadRequest)

	a, err := f.users.Login(ctx, model.LoginRequest{Username: "alice", Password: "alice-pw"})
	testutil.AssertNoError(t, err)

	got, err := f.users.Authenticate(ctx, a.AuthToken)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.Username, "alice")

	testutil.AssertNoError(t, f.users.Logout(ctx, a.AuthToken))
	_, err = f.users.Authenticate(ctx, a.AuthToken)
	testutil.AssertErrorIs(t, err, errors.ErrUnauthorized)
	testutil.AssertErrorIs(t, f.users.Logout(ctx, a.AuthToken), errors.ErrUnauthorized)
	testutil.AssertErrorIs(t, f.users.Logout(ctx, ""), errors.ErrUnauthorized)
}

func TestCreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.register(t, "alice")

	_, err := f.games.Create(ctx, "bogus", model.CreateGameRequest{GameName: "g"})
	testutil.AssertErrorIs(t, err, errors.ErrUnauthorized)
	_, err = f.games.Create(ctx, token, model.CreateGameRequest{})
	testutil.AssertErrorIs(t, err, errors.ErrBadRequest)

	first, err := f.games.Create(ctx, token, model.CreateGameRequest{GameName: "one"})
	testutil.AssertNoError(t, err)
	second, err := f.games.Create(ctx, token, model.CreateGameRequest{GameName: "two"})
	testutil.AssertNoError(t, err)

	list, err := f.games.List(ctx, token)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, list, model.ListGamesResult{Games: []model.GameSummary{
		{GameID: first.GameID, GameName: "one"},
		{GameID: second.GameID, GameName: "two"},
	}})

	_, err = f.games.List(ctx, "")
	testutil.AssertErrorIs(t, err, errors.ErrUnauthorized)
}

func TestJoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	res, err := f.games.Create(ctx, alice, model.CreateGameRequest{GameName: "g"})
	testutil.AssertNoError(t, err)
	id := res.GameID

	tests := []struct {
		name    string
		token   string
		req     model.JoinGameRequest
		wantErr error
	}{
		{"white", alice, model.JoinGameRequest{PlayerColor: "WHITE", GameID: id}, nil},
		{"white taken", bob, model.JoinGameRequest{PlayerColor: "WHITE", GameID: id}, errors.ErrAlreadyTaken},
		{"bad colour", bob, model.JoinGameRequest{PlayerColor: "green", GameID: id}, errors.ErrBadRequest},
		{"lowercase colour", bob, model.JoinGameRequest{PlayerColor: "black", GameID: id}, errors.ErrBadRequest},
		{"missing game", bob, model.JoinGameRequest{PlayerColor: "BLACK", GameID: id + 100}, errors.ErrBadRequest},
		{"no auth", "", model.JoinGameRequest{PlayerColor: "BLACK", GameID: id}, errors.ErrUnauthorized},
		{"black", bob, model.JoinGameRequest{PlayerColor: "BLACK", GameID: id}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.games.Join(ctx, tt.token, tt.req)
			if tt.wantErr == nil {
				testutil.AssertNoError(t, err)
				return
			}
			testutil.AssertErrorIs(t, err, tt.wantErr)
		})
	}

	g := f.game(t, alice, id)
	testutil.AssertEqual(t, g.WhiteUsername, "alice")
	testutil.AssertEqual(t, g.BlackUsername, "bob")
}

func TestMakeMove(t *testing.T) {
	f := newFixture(t)
	id, alice, bob := f.seatedGame(t)

	res, err := f.move(t, alice, id, "e2e4")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Username, "alice")
	testutil.AssertEqual(t, res.Status, engine.Ongoing)
	testutil.AssertEqual(t, res.Game.Game.Turn(), chess.Black)

	// The move is persisted.
	g := f.game(t, bob, id)
	testutil.AssertEqual(t, g.Game.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1")
}

func TestMakeMove_Rejections(t *testing.T) {
	f := newFixture(t)
	id, alice, bob := f.seatedGame(t)
	carol := f.register(t, "carol")

	tests := []struct {
		name    string
		token   string
		move    string
		wantErr error
	}{
		{"out of turn", bob, "e7e5", errors.ErrIllegalMove},
		{"opponent's piece", alice, "e7e5", errors.ErrIllegalMove},
		{"illegal geometry", alice, "e2e5", errors.ErrIllegalMove},
		{"empty square", alice, "e4e5", errors.ErrIllegalMove},
		{"observer", carol, "e2e4", errors.ErrBadRequest},
		{"bad token", "nope", "e2e4", errors.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.move(t, tt.token, id, tt.move)
			testutil.AssertErrorIs(t, err, tt.wantErr)
		})
	}

	var me *errors.MoveError
	_, err := f.move(t, alice, id, "e2e5")
	testutil.AssertTrue(t, errors.As(err, &me), "want MoveError, got %v", err)
	testutil.AssertEqual(t, me.GameID, id)

	// Nothing was applied.
	g := f.game(t, alice, id)
	testutil.AssertEqual(t, g.Game.FEN(), engine.InitialFEN)
}

func TestMakeMove_CheckmateEndsGame(t *testing.T) {
	f := newFixture(t)
	id, alice, bob := f.seatedGame(t)

	for i, step := range []struct {
		token, move string
		want        engine.Status
	}{
		{alice, "f2f3", engine.Ongoing},
		{bob, "e7e5", engine.Ongoing},
		{alice, "g2g4", engine.Ongoing},
		{bob, "d8h4", engine.Checkmate},
	} {
		res, err := f.move(t, step.token, id, step.move)
		testutil.AssertNoError(t, err, "move %d", i)
		testutil.AssertEqual(t, res.Status, step.want, "move %d", i)
	}

	g := f.game(t, alice, id)
	testutil.AssertTrue(t, g.Over)

	_, err := f.move(t, alice, id, "a2a3")
	testutil.AssertErrorIs(t, err, errors.ErrGameOver)
	_, _, err = f.games.Resign(context.Background(), alice, id)
	testutil.AssertErrorIs(t, err, errors.ErrGameOver)
}

func TestMakeMove_Check(t *testing.T) {
	f := newFixture(t)
	id, alice, bob := f.seatedGame(t)
	ctx := context.Background()

	game := testutil.MustGame(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	testutil.AssertNoError(t, f.stores.Games.UpdateGame(ctx, id, game, false))

	res, err := f.move(t, alice, id, "a1a8")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Status, engine.Check)
	testutil.AssertFalse(t, res.Game.Over)

	res, err = f.move(t, bob, id, "e8e7")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Status, engine.Ongoing)
}

func TestMakeMove_StalemateEndsGame(t *testing.T) {
	f := newFixture(t)
	id, alice, _ := f.seatedGame(t)
	ctx := context.Background()

	game := testutil.MustGame(t, "7k/8/5K2/6Q1/8/8/8/8 w - - 0 1")
	testutil.AssertNoError(t, f.stores.Games.UpdateGame(ctx, id, game, false))

	res, err := f.move(t, alice, id, "g5g6")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Status, engine.Stalemate)
	testutil.AssertTrue(t, res.Game.Over)
}

func TestLeave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, alice, _ := f.seatedGame(t)
	carol := f.register(t, "carol")

	g, name, err := f.games.Leave(ctx, alice, id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, name, "alice")
	testutil.AssertEqual(t, g.WhiteUsername, "")
	testutil.AssertEqual(t, g.BlackUsername, "bob")

	// The seat is free again.
	testutil.AssertNoError(t, f.games.Join(ctx, carol, model.JoinGameRequest{PlayerColor: "WHITE", GameID: id}))

	// Observers can leave without touching seats.
	dave := f.register(t, "dave")
	g, _, err = f.games.Leave(ctx, dave, id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.WhiteUsername, "carol")

	_, _, err = f.games.Leave(ctx, dave, id+50)
	testutil.AssertErrorIs(t, err, errors.ErrBadRequest)
}

func TestResign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, alice, bob := f.seatedGame(t)
	carol := f.register(t, "carol")

	_, _, err := f.games.Resign(ctx, carol, id)
	testutil.AssertErrorIs(t, err, errors.ErrBadRequest)

	g, name, err := f.games.Resign(ctx, bob, id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, name, "bob")
	testutil.AssertTrue(t, g.Over)

	_, err = f.move(t, alice, id, "e2e4")
	testutil.AssertErrorIs(t, err, errors.ErrGameOver)
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seatedGame(t)

	testutil.AssertNoError(t, f.users.Clear(ctx))

	_, err := f.users.Login(ctx, model.LoginRequest{Username: "alice", Password: "alice-pw"})
	testutil.AssertErrorIs(t, err, errors.ErrUnauthorized)
	games, err := f.stores.Games.List(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertLen(t, games, 0)
}

// Concurrent moves on one game are serialised: exactly one of two racing
// first moves for White is accepted.
func TestMakeMove_Serialised(t *testing.T) {
	f := newFixture(t)
	id, alice, _ := f.seatedGame(t)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, mv := range []string{"e2e4", "d2d4"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.games.MakeMove(context.Background(), alice, id, testutil.MustMove(t, mv), nil)
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		testutil.AssertErrorIs(t, err, errors.ErrIllegalMove)
	}
	testutil.AssertEqual(t, ok, 1)
}

func TestFollow(t *testing.T) {
	f := newFixture(t)
	id, alice, _ := f.seatedGame(t)
	ctx := context.Background()

	var user string
	err := f.games.Follow(ctx, alice, id, func(g *model.GameData, a model.AuthData) error {
		user = a.Username
		return nil
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, user, "alice")

	noop := func(*model.GameData, model.AuthData) error { return nil }
	testutil.AssertErrorIs(t, f.games.Follow(ctx, alice, id+100, noop), errors.ErrBadRequest)
	testutil.AssertErrorIs(t, f.games.Follow(ctx, "nope", id, noop), errors.ErrUnauthorized)

	want := errors.New("send failed")
	testutil.AssertErrorIs(t, f.games.Follow(ctx, alice, id, func(*model.GameData, model.AuthData) error {
		return want
	}), want)
}

// A follower that arrives while a move is being published waits for it and
// then sees the new position, never the one before the move.
func TestFollow_OrderedAfterPublish(t *testing.T) {
	f := newFixture(t)
	id, alice, bob := f.seatedGame(t)
	ctx := context.Background()

	publishing := make(chan struct{})
	release := make(chan struct{})
	moved := make(chan error, 1)
	go func() {
		_, err := f.games.MakeMove(ctx, alice, id, testutil.MustMove(t, "e2e4"), func(res *service.MoveResult) {
			testutil.AssertEqual(t, res.Game.Game.Turn(), chess.Black)
			close(publishing)
			<-release
		})
		moved <- err
	}()
	<-publishing

	followed := make(chan chess.Colour, 1)
	go func() {
		_ = f.games.Follow(ctx, bob, id, func(g *model.GameData, _ model.AuthData) error {
			followed <- g.Game.Turn()
			return nil
		})
	}()

	select {
	case <-followed:
		t.Fatal("Follow ran while the move was still being published")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	testutil.AssertNoError(t, <-moved)
	testutil.AssertEqual(t, <-followed, chess.Black)
}
