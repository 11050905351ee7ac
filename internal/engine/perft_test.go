package engine_test

import (
	"fmt"
	"testing"

	"github.com/dylhunn/dragontoothmg"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/testutil"
)

// perft counts leaf nodes of the legal move tree to the given depth.
func perft(t testing.TB, g *engine.Game, depth int) int {
	moves := g.LegalMoves(g.Turn())
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		next := g.Clone()
		if err := next.MakeMove(m); err != nil {
			t.Fatalf("legal move %s rejected: %v", m, err)
		}
		nodes += perft(t, next, depth-1)
	}
	return nodes
}

// Castling and en passant cannot occur within four plies of the opening
// position, so the standard counts apply unchanged.
func TestPerft_Initial(t *testing.T) {
	tests := []struct {
		depth int
		want  int
		long  bool
	}{
		{1, 20, false},
		{2, 400, false},
		{3, 8902, false},
		{4, 197281, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("depth%d", tt.depth), func(t *testing.T) {
			if tt.long && testing.Short() {
				t.Skip("skipping deep perft in short mode")
			}
			testutil.AssertEqual(t, perft(t, engine.NewGame(), tt.depth), tt.want)
		})
	}
}

// crossCheckFENs avoid castling rights and en passant squares, which the
// reference generator would otherwise add.
var crossCheckFENs = []string{
	engine.InitialFEN,
	"rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b - - 0 1",
	"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w - - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w - - 1 8",
	"4k3/4r3/8/8/8/8/1B2R3/4K3 w - - 0 1",
	"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 1 3",
	"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
}

func TestLegalMoves_MatchReferenceGenerator(t *testing.T) {
	for _, fen := range crossCheckFENs {
		t.Run(fen, func(t *testing.T) {
			g := testutil.MustGame(t, fen)
			got := testutil.MoveStrings(g.LegalMoves(g.Turn()))

			ref := dragontoothmg.ParseFen(fen)
			want := testutil.MoveStrings(referenceMoves(ref.GenerateLegalMoves()))

			testutil.AssertEqual(t, got, want)
		})
	}
}

// TestLegalMoves_MatchReferenceAfterPlay walks a short game through both
// generators, comparing the move lists at every ply.
func TestLegalMoves_MatchReferenceAfterPlay(t *testing.T) {
	g := engine.NewGame()
	line := []string{"d2d4", "g8f6", "c2c4", "e7e6", "b1c3", "f8b4", "d1c2", "b4c3", "c2c3", "f6e4"}

	for _, s := range line {
		ref := dragontoothmg.ParseFen(g.FEN())
		testutil.AssertEqual(t,
			testutil.MoveStrings(g.LegalMoves(g.Turn())),
			testutil.MoveStrings(referenceMoves(ref.GenerateLegalMoves())),
			"before %s", s)
		testutil.PlayMoves(t, g, s)
	}
}

func referenceMoves(moves []dragontoothmg.Move) []chess.Move {
	out := make([]chess.Move, 0, len(moves))
	for _, m := range moves {
		out = append(out, chess.NewMove(
			squareToPosition(m.From()),
			squareToPosition(m.To()),
			referenceKind(m.Promote()),
		))
	}
	return out
}

// squareToPosition converts a 0-63 square index (a1 = 0, h8 = 63).
func squareToPosition(sq uint8) chess.Position {
	return chess.Pos(int(sq/8)+1, int(sq%8)+1)
}

func referenceKind(p dragontoothmg.Piece) chess.Kind {
	switch p {
	case dragontoothmg.Queen:
		return chess.Queen
	case dragontoothmg.Rook:
		return chess.Rook
	case dragontoothmg.Bishop:
		return chess.Bishop
	case dragontoothmg.Knight:
		return chess.Knight
	}
	return chess.NoKind
}
