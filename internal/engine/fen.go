package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
// Castling rights are not tracked, so that field is always "-".
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// NewGameFromFEN creates a game from a FEN string. Only the piece
// placement and side-to-move fields are used; castling, en passant and the
// clocks are accepted and ignored. A missing side-to-move field means White.
func NewGameFromFEN(fen string) (*Game, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, fmt.Errorf("empty FEN string: %w", errors.ErrInvalidFEN)
	}

	g := &Game{turn: chess.White}
	if err := parsePiecePositions(&g.board, parts[0]); err != nil {
		return nil, err
	}
	if len(parts) >= 2 {
		turn, err := parseSideToMove(parts[1])
		if err != nil {
			return nil, err
		}
		g.turn = turn
	}
	return g, nil
}

// MustFEN is like NewGameFromFEN but panics on error. Intended for fixed
// positions in tests and fixtures.
func MustFEN(fen string) *Game {
	g, err := NewGameFromFEN(fen)
	if err != nil {
		panic(err)
	}
	return g
}

// parsePiecePositions parses the piece placement field of a FEN string.
// Each of the eight ranks must describe exactly eight squares.
func parsePiecePositions(board *chess.Board, positions string) error {
	ranks := strings.Split(positions, "/")
	if len(ranks) != chess.BoardSize {
		return fmt.Errorf("expected %d ranks, got %d: %w", chess.BoardSize, len(ranks), errors.ErrInvalidFEN)
	}

	for i, rankText := range ranks {
		row := chess.LastRank - i
		col := chess.FirstCol
		for _, c := range rankText {
			switch {
			case c >= '1' && c <= '8':
				col += int(c - '0')
			default:
				kind := chess.KindFromLetter(byte(c))
				if c > 0x7f || kind == chess.NoKind {
					return fmt.Errorf("invalid piece character: %c: %w", c, errors.ErrInvalidFEN)
				}
				if col > chess.LastCol {
					return fmt.Errorf("rank %d overflows: %w", row, errors.ErrInvalidFEN)
				}
				colour := chess.White
				if c >= 'a' && c <= 'z' {
					colour = chess.Black
				}
				board.Add(chess.Pos(row, col), chess.NewPiece(colour, kind))
				col++
			}
		}
		if col != chess.LastCol+1 {
			return fmt.Errorf("rank %d has %d squares: %w", row, col-1, errors.ErrInvalidFEN)
		}
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(field string) (chess.Colour, error) {
	switch field {
	case "w":
		return chess.White, nil
	case "b":
		return chess.Black, nil
	}
	return chess.White, fmt.Errorf("invalid side to move: %s: %w", field, errors.ErrInvalidFEN)
}

// FEN returns the position as a FEN string. Castling and en passant are
// always "-" and the clocks are fixed at "0 1".
func (g *Game) FEN() string {
	var sb strings.Builder
	writePiecePositions(&sb, &g.board)
	sb.WriteByte(' ')
	if g.turn == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteString(" - - 0 1")
	return sb.String()
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for row := chess.LastRank; row >= chess.FirstRank; row-- {
		emptyCount := 0
		for col := chess.FirstCol; col <= chess.LastCol; col++ {
			piece, ok := board.Get(chess.Pos(row, col))
			if !ok {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(piece.Letter())
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if row > chess.FirstRank {
			sb.WriteByte('/')
		}
	}
}
