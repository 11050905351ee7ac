// Package testutil provides shared test utilities for the chess server.
// These helpers build positions from FEN and moves from coordinate text so
// tests can state scenarios compactly.
package testutil

import (
	"slices"
	"testing"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
)

// MustGame builds a game from a FEN string.
// It calls t.Fatal if the FEN is invalid.
func MustGame(t testing.TB, fen string) *engine.Game {
	t.Helper()
	g, err := engine.NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("invalid test FEN %q: %v", fen, err)
	}
	return g
}

// MustMove parses a coordinate move such as "e2e4" or "a7a8q".
// It calls t.Fatal if the text does not parse.
func MustMove(t testing.TB, s string) chess.Move {
	t.Helper()
	m, err := chess.ParseMove(s)
	if err != nil {
		t.Fatalf("invalid test move %q: %v", s, err)
	}
	return m
}

// MustPos parses an algebraic square such as "e4".
func MustPos(t testing.TB, s string) chess.Position {
	t.Helper()
	p, err := chess.ParsePosition(s)
	if err != nil {
		t.Fatalf("invalid test square %q: %v", s, err)
	}
	return p
}

// PlayMoves plays each move in order and fails the test on the first
// illegal one.
func PlayMoves(t testing.TB, g *engine.Game, moves ...string) {
	t.Helper()
	for i, s := range moves {
		if err := g.MakeMove(MustMove(t, s)); err != nil {
			t.Fatalf("move %d (%s): %v", i+1, s, err)
		}
	}
}

// MoveStrings renders moves in coordinate notation, sorted, so that move
// sets can be compared regardless of generation order.
func MoveStrings(moves []chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	slices.Sort(out)
	return out
}
