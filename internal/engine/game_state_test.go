package engine_test

import (
	"testing"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/testutil"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		colour chess.Colour
		want   engine.Status
	}{
		{
			name:   "initial position",
			fen:    engine.InitialFEN,
			colour: chess.White,
			want:   engine.Ongoing,
		},
		{
			name:   "fool's mate",
			fen:    "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 1 3",
			colour: chess.White,
			want:   engine.Checkmate,
		},
		{
			name:   "back rank mate",
			fen:    "3R2k1/5ppp/8/8/8/8/8/6K1 b - - 0 1",
			colour: chess.Black,
			want:   engine.Checkmate,
		},
		{
			name:   "check with an escape",
			fen:    "4k3/8/8/8/8/8/8/4R1K1 b - - 0 1",
			colour: chess.Black,
			want:   engine.Check,
		},
		{
			name:   "check answered by capture",
			fen:    "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1",
			colour: chess.White,
			want:   engine.Check,
		},
		{
			name:   "queen stalemate",
			fen:    "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
			colour: chess.Black,
			want:   engine.Stalemate,
		},
		{
			name:   "blocked pawn stalemate",
			fen:    "8/8/8/8/8/5k2/5p2/5K2 w - - 0 1",
			colour: chess.White,
			want:   engine.Stalemate,
		},
		{
			name:   "side not to move can be mated",
			fen:    "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR b - - 1 3",
			colour: chess.White,
			want:   engine.Checkmate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustGame(t, tt.fen)

			status, err := g.Status(tt.colour)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, status, tt.want)

			inCheck, err := g.IsInCheck(tt.colour)
			testutil.AssertNoError(t, err)
			mate, err := g.IsInCheckmate(tt.colour)
			testutil.AssertNoError(t, err)
			stale, err := g.IsInStalemate(tt.colour)
			testutil.AssertNoError(t, err)

			testutil.AssertEqual(t, inCheck, tt.want == engine.Check || tt.want == engine.Checkmate, "check")
			testutil.AssertEqual(t, mate, tt.want == engine.Checkmate, "checkmate")
			testutil.AssertEqual(t, stale, tt.want == engine.Stalemate, "stalemate")
			testutil.AssertFalse(t, mate && stale, "checkmate and stalemate at once")

			noMoves := len(g.LegalMoves(tt.colour)) == 0
			testutil.AssertEqual(t, mate, inCheck && noMoves)
			testutil.AssertEqual(t, stale, !inCheck && noMoves)
		})
	}
}

func TestStatus_FoolsMatePlayed(t *testing.T) {
	g := engine.NewGame()
	testutil.PlayMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	mate, err := g.IsInCheckmate(chess.White)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, mate)

	stale, err := g.IsInStalemate(chess.White)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, stale)

	mate, err = g.IsInCheckmate(chess.Black)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, mate)
}

func TestStatus_MissingKing(t *testing.T) {
	g := testutil.MustGame(t, "8/8/8/8/8/8/4P3/4K3 w - - 0 1")

	_, err := g.IsInCheck(chess.Black)
	testutil.AssertErrorIs(t, err, errors.ErrMissingKing)
	_, err = g.IsInCheckmate(chess.Black)
	testutil.AssertErrorIs(t, err, errors.ErrMissingKing)
	_, err = g.IsInStalemate(chess.Black)
	testutil.AssertErrorIs(t, err, errors.ErrMissingKing)
	_, err = g.Status(chess.Black)
	testutil.AssertErrorIs(t, err, errors.ErrMissingKing)

	// The side that has a king is still answerable, and play continues.
	inCheck, err := g.IsInCheck(chess.White)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, inCheck)
	testutil.PlayMoves(t, g, "e2e4")
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   engine.Status
		want     string
		terminal bool
	}{
		{engine.Ongoing, "ongoing", false},
		{engine.Check, "check", false},
		{engine.Checkmate, "checkmate", true},
		{engine.Stalemate, "stalemate", true},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, tt.status.String(), tt.want)
		testutil.AssertEqual(t, tt.status.Terminal(), tt.terminal)
	}
}
