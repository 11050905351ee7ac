package engine

import "github.com/lgbarn/chess-server-go/internal/chess"

// ValidMoves returns the legal moves for the piece on pos, whichever side
// it belongs to. It returns nil if the square is empty.
//
// A pseudo-legal move is legal unless, once played on a copy of the board,
// the mover's king is attacked. That one test covers pins and check
// evasion alike.
func (g *Game) ValidMoves(pos chess.Position) []chess.Move {
	piece, ok := g.board.Get(pos)
	if !ok {
		return nil
	}

	candidates := PieceMoves(&g.board, pos)
	legal := make([]chess.Move, 0, len(candidates))
	for _, m := range candidates {
		if tryMove(&g.board, m, piece.Colour) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMoves returns the union of ValidMoves over every piece of colour.
func (g *Game) LegalMoves(colour chess.Colour) []chess.Move {
	var moves []chess.Move
	for _, occ := range g.board.Pieces(colour) {
		moves = append(moves, g.ValidMoves(occ.Position)...)
	}
	return moves
}

// HasLegalMoves returns true if the given colour has at least one legal move.
func (g *Game) HasLegalMoves(colour chess.Colour) bool {
	for _, occ := range g.board.Pieces(colour) {
		for _, m := range PieceMoves(&g.board, occ.Position) {
			if tryMove(&g.board, m, colour) {
				return true
			}
		}
	}
	return false
}

// tryMove makes a move on a copied board and checks if it leaves the king
// in check. A side with no king cannot expose it, so its moves pass.
func tryMove(board *chess.Board, move chess.Move, colour chess.Colour) bool {
	// Make a copy of the board
	testBoard := board.Clone()

	// Make the move, ignoring whose turn it is
	applyMove(testBoard, move)

	// Check if our king is in check after the move
	attacked, _ := kingAttacked(testBoard, colour)
	return !attacked
}

// applyMove plays move on board without any validation. A promotion
// replaces the pawn with the promoted piece of the same colour.
func applyMove(board *chess.Board, move chess.Move) {
	piece, ok := board.Get(move.Start)
	if !ok {
		return
	}
	if move.Promotion != chess.NoKind {
		piece = chess.NewPiece(piece.Colour, move.Promotion)
	}
	board.Remove(move.Start)
	board.Add(move.End, piece)
}
