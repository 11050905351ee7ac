// Package chess provides core chess types and operations.
package chess

import (
	"fmt"
	"strings"
)

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "WHITE"
	}
	return "BLACK"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// MarshalText encodes the colour as "WHITE" or "BLACK".
func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes "WHITE" or "BLACK" (case-insensitive).
func (c *Colour) UnmarshalText(text []byte) error {
	colour, err := ParseColour(string(text))
	if err != nil {
		return err
	}
	*c = colour
	return nil
}

// ParseColour parses a colour name (case-insensitive).
func ParseColour(s string) (Colour, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WHITE", "W":
		return White, nil
	case "BLACK", "B":
		return Black, nil
	}
	return Black, fmt.Errorf("unknown colour %q", s)
}

// ColourOffset returns +1 for White, -1 for Black (for pawn direction).
func ColourOffset(colour Colour) int {
	if colour == White {
		return 1
	}
	return -1
}

// HomeRank returns the rank a colour's pawns start on.
func HomeRank(colour Colour) int {
	if colour == White {
		return 2
	}
	return 7
}

// PromotionRank returns the rank on which a colour's pawns promote.
func PromotionRank(colour Colour) int {
	if colour == White {
		return LastRank
	}
	return FirstRank
}

// Kind represents a chess piece type.
type Kind int

const (
	NoKind Kind = iota // Empty square / no promotion
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionKinds lists the kinds a pawn may promote to, strongest first.
var PromotionKinds = [...]Kind{Queen, Rook, Bishop, Knight}

var kindNames = [...]string{"NONE", "PAWN", "KNIGHT", "BISHOP", "ROOK", "QUEEN", "KING"}

// String returns the string representation of a piece kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Letter returns the single letter representation of a kind (uppercase).
func (k Kind) Letter() byte {
	letters := []byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if k >= 0 && int(k) < len(letters) {
		return letters[k]
	}
	return '?'
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name or letter.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind parses a kind from its name ("QUEEN") or letter ("q").
func ParseKind(s string) (Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "NONE" {
		return NoKind, nil
	}
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	if len(s) == 1 {
		if k := KindFromLetter(s[0]); k != NoKind {
			return k, nil
		}
	}
	return NoKind, fmt.Errorf("unknown piece kind %q", s)
}

// KindFromLetter converts a piece letter (either case) to a kind.
func KindFromLetter(c byte) Kind {
	switch c {
	case 'K', 'k':
		return King
	case 'Q', 'q':
		return Queen
	case 'R', 'r':
		return Rook
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'P', 'p':
		return Pawn
	default:
		return NoKind
	}
}

// IsPromotion reports whether a pawn may promote to k.
func (k Kind) IsPromotion() bool {
	for _, p := range PromotionKinds {
		if p == k {
			return true
		}
	}
	return false
}

// Piece is a coloured piece. The zero value is an empty square.
// Two pieces of the same colour and kind are interchangeable.
type Piece struct {
	Colour Colour
	Kind   Kind
}

// NewPiece creates a piece.
func NewPiece(colour Colour, kind Kind) Piece {
	return Piece{Colour: colour, Kind: kind}
}

// W creates a white piece.
func W(kind Kind) Piece {
	return Piece{Colour: White, Kind: kind}
}

// B creates a black piece.
func B(kind Kind) Piece {
	return Piece{Colour: Black, Kind: kind}
}

// IsEmpty reports whether p represents an empty square.
func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Letter returns the FEN letter: uppercase for White, lowercase for Black.
func (p Piece) Letter() byte {
	l := p.Kind.Letter()
	if p.Colour == Black && l >= 'A' && l <= 'Z' {
		l += 'a' - 'A'
	}
	return l
}

// String returns e.g. "WHITE PAWN".
func (p Piece) String() string {
	if p.IsEmpty() {
		return "EMPTY"
	}
	return p.Colour.String() + " " + p.Kind.String()
}

// Constants for board dimensions and coordinates.
const (
	BoardSize = 8
	FirstRank = 1
	LastRank  = BoardSize
	FirstCol  = 1
	LastCol   = BoardSize
)
