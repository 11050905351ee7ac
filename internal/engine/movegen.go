// Package engine provides chess move generation, legality checking and
// game state queries.
package engine

import "github.com/lgbarn/chess-server-go/internal/chess"

// Direction tables as (row, col) deltas.
var (
	diagonalDirs  = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs  = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs     = append(append([][2]int{}, diagonalDirs...), straightDirs...)
	knightOffsets = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// PieceMoves returns every pseudo-legal move for the piece standing on from.
// Moves that leave the mover's own king in check are included; filtering
// those out is the job of Game.ValidMoves. An empty square yields no moves.
func PieceMoves(board *chess.Board, from chess.Position) []chess.Move {
	piece, ok := board.Get(from)
	if !ok {
		return nil
	}

	switch piece.Kind {
	case chess.Pawn:
		return pawnMoves(board, from, piece.Colour)
	case chess.Knight:
		return leapingMoves(board, from, piece.Colour, knightOffsets)
	case chess.Bishop:
		return slidingMoves(board, from, piece.Colour, diagonalDirs)
	case chess.Rook:
		return slidingMoves(board, from, piece.Colour, straightDirs)
	case chess.Queen:
		return slidingMoves(board, from, piece.Colour, queenDirs)
	case chess.King:
		return leapingMoves(board, from, piece.Colour, kingOffsets)
	}
	return nil
}

// slidingMoves ray-casts from the origin in each direction. A ray stops
// before a friendly piece, on an enemy piece (capture) or at the edge.
func slidingMoves(board *chess.Board, from chess.Position, colour chess.Colour, dirs [][2]int) []chess.Move {
	var moves []chess.Move
	for _, dir := range dirs {
		to := from.Offset(dir[0], dir[1])
		for to.Valid() {
			target, occupied := board.Get(to)
			if occupied {
				if target.Colour != colour {
					moves = append(moves, chess.NewMove(from, to, chess.NoKind))
				}
				break // Blocked
			}
			moves = append(moves, chess.NewMove(from, to, chess.NoKind))
			to = to.Offset(dir[0], dir[1])
		}
	}
	return moves
}

// leapingMoves handles single-step pieces (knight, king): each destination
// is taken if it is on the board and not held by a friendly piece.
func leapingMoves(board *chess.Board, from chess.Position, colour chess.Colour, offsets [][2]int) []chess.Move {
	var moves []chess.Move
	for _, offset := range offsets {
		to := from.Offset(offset[0], offset[1])
		if !to.Valid() {
			continue
		}
		if target, occupied := board.Get(to); occupied && target.Colour == colour {
			continue
		}
		moves = append(moves, chess.NewMove(from, to, chess.NoKind))
	}
	return moves
}

// pawnMoves generates pushes, the double push from the home rank and
// diagonal captures. En passant is not generated.
func pawnMoves(board *chess.Board, from chess.Position, colour chess.Colour) []chess.Move {
	var moves []chess.Move
	dir := chess.ColourOffset(colour)

	// Forward move
	one := from.Offset(dir, 0)
	if one.Valid() && isEmpty(board, one) {
		moves = appendPawnMove(moves, from, one, colour)

		// Double push from starting rank, through the empty square above
		two := from.Offset(2*dir, 0)
		if from.Row == chess.HomeRank(colour) && two.Valid() && isEmpty(board, two) {
			moves = append(moves, chess.NewMove(from, two, chess.NoKind))
		}
	}

	// Captures
	for _, dc := range [...]int{-1, 1} {
		to := from.Offset(dir, dc)
		if target, occupied := board.Get(to); occupied && target.Colour != colour {
			moves = appendPawnMove(moves, from, to, colour)
		}
	}
	return moves
}

// appendPawnMove adds a pawn move, expanding it into one move per
// promotion kind when it lands on the promotion rank.
func appendPawnMove(moves []chess.Move, from, to chess.Position, colour chess.Colour) []chess.Move {
	if to.Row != chess.PromotionRank(colour) {
		return append(moves, chess.NewMove(from, to, chess.NoKind))
	}
	for _, kind := range chess.PromotionKinds {
		moves = append(moves, chess.NewMove(from, to, kind))
	}
	return moves
}

func isEmpty(board *chess.Board, pos chess.Position) bool {
	_, occupied := board.Get(pos)
	return !occupied
}
