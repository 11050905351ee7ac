package engine

import (
	"fmt"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/errors"
)

// findKing finds the king of the given colour on the board.
func findKing(board *chess.Board, colour chess.Colour) (chess.Position, bool) {
	return board.Find(chess.NewPiece(colour, chess.King))
}

// isSquareAttacked returns true if any pseudo-legal move of byColour ends
// on the square.
func isSquareAttacked(board *chess.Board, sq chess.Position, byColour chess.Colour) bool {
	for _, occ := range board.Pieces(byColour) {
		for _, m := range PieceMoves(board, occ.Position) {
			if m.End == sq {
				return true
			}
		}
	}
	return false
}

// kingAttacked reports whether colour's king stands on an attacked square.
// ok is false when colour has no king.
func kingAttacked(board *chess.Board, colour chess.Colour) (attacked, ok bool) {
	king, ok := findKing(board, colour)
	if !ok {
		return false, false
	}
	return isSquareAttacked(board, king, colour.Opposite()), true
}

// IsInCheck returns true if the given colour's king is attacked on the
// current board. It fails with ErrMissingKing if that colour has no king.
func (g *Game) IsInCheck(colour chess.Colour) (bool, error) {
	attacked, ok := kingAttacked(&g.board, colour)
	if !ok {
		return false, fmt.Errorf("check query for %s: %w", colour, errors.ErrMissingKing)
	}
	return attacked, nil
}
