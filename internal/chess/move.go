package chess

import (
	"fmt"
	"strings"
)

// Position is a square on the board. Row is the rank (1-8, White's back
// rank is 1) and Col is the file (1-8, file a is 1).
type Position struct {
	Row int
	Col int
}

// Pos creates a position.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// Valid reports whether the position lies on the board.
func (p Position) Valid() bool {
	return p.Row >= FirstRank && p.Row <= LastRank && p.Col >= FirstCol && p.Col <= LastCol
}

// Offset returns the position dr rows and dc columns away.
// The result may be off the board.
func (p Position) Offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// String returns the algebraic name of the square (e.g. "e4").
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return string([]byte{byte('a' + p.Col - 1), byte('0' + p.Row)})
}

// MarshalText encodes the position in algebraic form.
func (p Position) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("position %s is off the board", p)
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes an algebraic square name.
func (p *Position) UnmarshalText(text []byte) error {
	pos, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

// ParsePosition parses an algebraic square name such as "e4".
func ParsePosition(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return Position{Row: int(s[1] - '0'), Col: int(s[0]-'a') + 1}, nil
}

// Move is a single move from Start to End. Promotion is NoKind unless a
// pawn lands on its promotion rank.
type Move struct {
	Start     Position
	End       Position
	Promotion Kind
}

// NewMove creates a move.
func NewMove(start, end Position, promotion Kind) Move {
	return Move{Start: start, End: end, Promotion: promotion}
}

// IsPromotion returns true if this move is a pawn promotion.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoKind
}

// String returns the move in long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.Start.String() + m.End.String()
	if m.IsPromotion() {
		s += string(Piece{Colour: Black, Kind: m.Promotion}.Letter())
	}
	return s
}

// MarshalText encodes the move in long algebraic form.
func (m Move) MarshalText() ([]byte, error) {
	if !m.Start.Valid() || !m.End.Valid() {
		return nil, fmt.Errorf("move %s is off the board", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a long algebraic move.
func (m *Move) UnmarshalText(text []byte) error {
	mv, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = mv
	return nil
}

// ParseMove parses long algebraic notation: "e2e4", "e2-e4", "e7e8q"
// or "e7 e8 queen".
func ParseMove(s string) (Move, error) {
	fields := strings.Fields(strings.ReplaceAll(strings.TrimSpace(s), "-", " "))
	if len(fields) == 1 {
		f := fields[0]
		if len(f) < 4 {
			return Move{}, fmt.Errorf("invalid move %q", s)
		}
		fields = []string{f[:2], f[2:4]}
		if len(f) > 4 {
			fields = append(fields, f[4:])
		}
	}
	if len(fields) < 2 || len(fields) > 3 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}

	start, err := ParsePosition(fields[0])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	end, err := ParsePosition(fields[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}

	m := Move{Start: start, End: end}
	if len(fields) == 3 {
		kind, err := ParseKind(fields[2])
		if err != nil || !kind.IsPromotion() {
			return Move{}, fmt.Errorf("invalid promotion in move %q", s)
		}
		m.Promotion = kind
	}
	return m, nil
}
