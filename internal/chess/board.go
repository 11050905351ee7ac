package chess

// Board is an 8x8 grid of pieces. Squares[row-1][col-1] holds the piece on
// Position{row, col}; the zero Piece marks an empty square.
//
// Board is a plain value: assigning or cloning it copies all 64 cells, which
// is what makes per-move "what if" simulation cheap.
type Board struct {
	Squares [BoardSize][BoardSize]Piece
}

// backRank is the standard piece order on files a-h.
var backRank = [BoardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard creates a new empty board.
func NewBoard() *Board {
	return &Board{}
}

// NewStandardBoard creates a board with the standard starting position.
func NewStandardBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset sets up the standard chess starting position.
func (b *Board) Reset() {
	b.Clear()
	for col := 0; col < BoardSize; col++ {
		b.Squares[0][col] = W(backRank[col])
		b.Squares[1][col] = W(Pawn)
		b.Squares[6][col] = B(Pawn)
		b.Squares[7][col] = B(backRank[col])
	}
}

// Clear removes every piece.
func (b *Board) Clear() {
	b.Squares = [BoardSize][BoardSize]Piece{}
}

// Get returns the piece at pos and whether the square is occupied.
// Off-board positions report an empty square.
func (b *Board) Get(pos Position) (Piece, bool) {
	if !pos.Valid() {
		return Piece{}, false
	}
	p := b.Squares[pos.Row-1][pos.Col-1]
	return p, !p.IsEmpty()
}

// Add places a piece at pos, replacing whatever was there.
// Off-board positions are the caller's responsibility and are ignored.
func (b *Board) Add(pos Position, piece Piece) {
	if pos.Valid() {
		b.Squares[pos.Row-1][pos.Col-1] = piece
	}
}

// Remove empties the square at pos. It is a no-op on an empty square.
func (b *Board) Remove(pos Position) {
	if pos.Valid() {
		b.Squares[pos.Row-1][pos.Col-1] = Piece{}
	}
}

// Clone creates an independent copy of the board.
func (b *Board) Clone() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// CopyFrom overwrites every square with the contents of other.
func (b *Board) CopyFrom(other *Board) {
	b.Squares = other.Squares
}

// Equal reports whether both boards hold the same piece on every square.
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	return b.Squares == other.Squares
}

// Occupied holds a piece together with the square it stands on.
type Occupied struct {
	Position Position
	Piece    Piece
}

// Pieces returns every piece of the given colour, scanning rank 1 to rank 8
// and file a to file h.
func (b *Board) Pieces(colour Colour) []Occupied {
	var out []Occupied
	for row := FirstRank; row <= LastRank; row++ {
		for col := FirstCol; col <= LastCol; col++ {
			p := b.Squares[row-1][col-1]
			if !p.IsEmpty() && p.Colour == colour {
				out = append(out, Occupied{Position: Position{Row: row, Col: col}, Piece: p})
			}
		}
	}
	return out
}

// Find returns the first square holding piece, scanning as Pieces does.
func (b *Board) Find(piece Piece) (Position, bool) {
	for row := FirstRank; row <= LastRank; row++ {
		for col := FirstCol; col <= LastCol; col++ {
			if b.Squares[row-1][col-1] == piece {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// Count returns the number of occupied squares.
func (b *Board) Count() int {
	n := 0
	for row := range b.Squares {
		for col := range b.Squares[row] {
			if !b.Squares[row][col].IsEmpty() {
				n++
			}
		}
	}
	return n
}
