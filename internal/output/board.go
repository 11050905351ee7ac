package output

import (
	"bufio"
	"io"
	"slices"

	"github.com/lgbarn/chess-server-go/internal/chess"
)

// ANSI escape sequences used by coloured rendering.
const (
	ansiReset      = "\x1b[0m"
	ansiLight      = "\x1b[48;5;187m"
	ansiDark       = "\x1b[48;5;101m"
	ansiHighlight  = "\x1b[48;5;71m"
	ansiBorder     = "\x1b[48;5;236m\x1b[38;5;250m"
	ansiWhitePiece = "\x1b[1;97m"
	ansiBlackPiece = "\x1b[1;30m"
)

var unicodePieces = map[chess.Piece]string{
	chess.W(chess.King): "♔", chess.W(chess.Queen): "♕", chess.W(chess.Rook): "♖",
	chess.W(chess.Bishop): "♗", chess.W(chess.Knight): "♘", chess.W(chess.Pawn): "♙",
	chess.B(chess.King): "♚", chess.B(chess.Queen): "♛", chess.B(chess.Rook): "♜",
	chess.B(chess.Bishop): "♝", chess.B(chess.Knight): "♞", chess.B(chess.Pawn): "♟",
}

// Renderer draws a board as text.
type Renderer struct {
	// ANSI draws chequered square backgrounds and coloured pieces.
	ANSI bool

	// Unicode uses chess glyphs instead of FEN letters.
	Unicode bool
}

// RenderBoard draws board in plain text with FEN letters.
func RenderBoard(w io.Writer, board *chess.Board, perspective chess.Colour, highlights []chess.Position) error {
	return Renderer{}.Render(w, board, perspective, highlights)
}

// Render draws board as seen by perspective: White (and observers) see
// rank 8 at the top, Black sees rank 1 at the top with the files reversed.
// Squares in highlights are marked.
func (r Renderer) Render(w io.Writer, board *chess.Board, perspective chess.Colour, highlights []chess.Position) error {
	bw := bufio.NewWriter(w)

	rows := []int{8, 7, 6, 5, 4, 3, 2, 1}
	cols := []int{1, 2, 3, 4, 5, 6, 7, 8}
	if perspective == chess.Black {
		slices.Reverse(rows)
		slices.Reverse(cols)
	}

	r.writeFiles(bw, cols)
	for _, row := range rows {
		r.writeLabel(bw, byte('0'+row))
		for _, col := range cols {
			pos := chess.Pos(row, col)
			r.writeSquare(bw, board, pos, slices.Contains(highlights, pos))
		}
		r.writeLabel(bw, byte('0'+row))
		bw.WriteByte('\n')
	}
	r.writeFiles(bw, cols)

	return bw.Flush()
}

func (r Renderer) writeFiles(bw *bufio.Writer, cols []int) {
	r.writeLabel(bw, ' ')
	for _, col := range cols {
		r.writeLabel(bw, byte('a'+col-1))
	}
	r.writeLabel(bw, ' ')
	bw.WriteByte('\n')
}

func (r Renderer) writeLabel(bw *bufio.Writer, c byte) {
	if r.ANSI {
		bw.WriteString(ansiBorder)
	}
	bw.WriteByte(' ')
	bw.WriteByte(c)
	bw.WriteByte(' ')
	if r.ANSI {
		bw.WriteString(ansiReset)
	}
}

func (r Renderer) writeSquare(bw *bufio.Writer, board *chess.Board, pos chess.Position, highlighted bool) {
	piece, occupied := board.Get(pos)

	if !r.ANSI {
		left, right := byte(' '), byte(' ')
		if highlighted {
			left, right = '[', ']'
		}
		bw.WriteByte(left)
		bw.WriteString(r.glyph(piece, occupied))
		bw.WriteByte(right)
		return
	}

	// a1 is a dark square.
	switch {
	case highlighted:
		bw.WriteString(ansiHighlight)
	case (pos.Row+pos.Col)%2 == 0:
		bw.WriteString(ansiDark)
	default:
		bw.WriteString(ansiLight)
	}
	if occupied && piece.Colour == chess.White {
		bw.WriteString(ansiWhitePiece)
	} else {
		bw.WriteString(ansiBlackPiece)
	}
	bw.WriteByte(' ')
	if occupied {
		bw.WriteString(r.glyph(piece, true))
	} else {
		bw.WriteByte(' ')
	}
	bw.WriteByte(' ')
	bw.WriteString(ansiReset)
}

func (r Renderer) glyph(piece chess.Piece, occupied bool) string {
	switch {
	case !occupied:
		return "."
	case r.Unicode:
		return unicodePieces[piece]
	default:
		return string(piece.Letter())
	}
}
