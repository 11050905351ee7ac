package engine

import (
	"fmt"
	"slices"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/errors"
)

// Game holds a board and the side to move.
//
// A Game is not safe for concurrent use. MakeMove validates and then
// mutates with no atomicity between the two steps, so a host serving
// several clients must serialise all access to one Game.
type Game struct {
	board chess.Board
	turn  chess.Colour
}

// NewGame creates a game at the standard starting position, White to move.
func NewGame() *Game {
	g := &Game{turn: chess.White}
	g.board.Reset()
	return g
}

// NewGameWithBoard creates a game from a copy of board with the given side
// to move.
func NewGameWithBoard(board *chess.Board, turn chess.Colour) *Game {
	g := &Game{turn: turn}
	g.board.CopyFrom(board)
	return g
}

// Board returns the live board. Callers must not mutate it while the game
// is in use; use SetBoard to replace the position.
func (g *Game) Board() *chess.Board {
	return &g.board
}

// SetBoard replaces the position with a square-by-square copy of board.
// The side to move is unchanged.
func (g *Game) SetBoard(board *chess.Board) {
	g.board.CopyFrom(board)
}

// Turn returns the side to move.
func (g *Game) Turn() chess.Colour {
	return g.turn
}

// SetTurn sets the side to move.
func (g *Game) SetTurn(colour chess.Colour) {
	g.turn = colour
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	c := *g
	return &c
}

// Equal reports whether both games have the same board and side to move.
func (g *Game) Equal(other *Game) bool {
	if other == nil {
		return false
	}
	return g.turn == other.turn && g.board.Equal(&other.board)
}

// MakeMove plays move for the side to move. It fails with ErrIllegalMove,
// leaving the game untouched, if the start square is empty, the piece there
// belongs to the other side, or the move is not among its legal moves.
func (g *Game) MakeMove(move chess.Move) error {
	piece, ok := g.board.Get(move.Start)
	if !ok {
		return illegal(move, fmt.Sprintf("no piece on %s", move.Start))
	}
	if piece.Colour != g.turn {
		return illegal(move, fmt.Sprintf("it is %s's turn", g.turn))
	}
	if !slices.Contains(g.ValidMoves(move.Start), move) {
		return illegal(move, fmt.Sprintf("%s cannot move there", piece))
	}

	applyMove(&g.board, move)
	g.turn = g.turn.Opposite()
	return nil
}

func illegal(move chess.Move, reason string) error {
	return &errors.MoveError{
		Err:    errors.ErrIllegalMove,
		Move:   move.String(),
		Reason: reason,
	}
}
