package testutil

import (
	"testing"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
)

func TestMustGame(t *testing.T) {
	g := MustGame(t, engine.InitialFEN)
	AssertEqual(t, g.Turn(), chess.White)
	AssertEqual(t, g.Board().Count(), 32)

	g = MustGame(t, "4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	AssertEqual(t, g.Turn(), chess.Black)
	AssertEqual(t, g.Board().Count(), 2)
}

func TestMustMove(t *testing.T) {
	tests := []struct {
		in   string
		want chess.Move
	}{
		{"e2e4", chess.NewMove(chess.Pos(2, 5), chess.Pos(4, 5), chess.NoKind)},
		{"a7a8q", chess.NewMove(chess.Pos(7, 1), chess.Pos(8, 1), chess.Queen)},
		{"h2 h1 knight", chess.NewMove(chess.Pos(2, 8), chess.Pos(1, 8), chess.Knight)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			AssertEqual(t, MustMove(t, tt.in), tt.want)
		})
	}
}

func TestMustPos(t *testing.T) {
	AssertEqual(t, MustPos(t, "a1"), chess.Pos(1, 1))
	AssertEqual(t, MustPos(t, "h8"), chess.Pos(8, 8))
}

func TestPlayMoves(t *testing.T) {
	g := MustGame(t, engine.InitialFEN)
	PlayMoves(t, g, "e2e4", "e7e5", "g1f3")
	AssertEqual(t, g.Turn(), chess.Black)
	AssertEqual(t, g.FEN(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b - - 0 1")
}

func TestMoveStrings(t *testing.T) {
	moves := []chess.Move{
		chess.NewMove(chess.Pos(2, 5), chess.Pos(4, 5), chess.NoKind),
		chess.NewMove(chess.Pos(2, 1), chess.Pos(3, 1), chess.NoKind),
	}
	AssertEqual(t, MoveStrings(moves), []string{"a2a3", "e2e4"})
	AssertEqual(t, MoveStrings(nil), []string{})
}
