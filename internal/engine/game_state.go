package engine

import "github.com/lgbarn/chess-server-go/internal/chess"

// Status classifies a position from one side's point of view.
type Status int

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Terminal reports whether the game cannot continue.
func (s Status) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

// IsInCheckmate returns true if colour is in check and has no legal move.
func (g *Game) IsInCheckmate(colour chess.Colour) (bool, error) {
	inCheck, err := g.IsInCheck(colour)
	if err != nil {
		return false, err
	}
	return inCheck && !g.HasLegalMoves(colour), nil
}

// IsInStalemate returns true if colour is not in check but has no legal move.
func (g *Game) IsInStalemate(colour chess.Colour) (bool, error) {
	inCheck, err := g.IsInCheck(colour)
	if err != nil {
		return false, err
	}
	return !inCheck && !g.HasLegalMoves(colour), nil
}

// Status classifies the position for colour with a single legal-move scan.
func (g *Game) Status(colour chess.Colour) (Status, error) {
	inCheck, err := g.IsInCheck(colour)
	if err != nil {
		return Ongoing, err
	}
	hasMoves := g.HasLegalMoves(colour)
	switch {
	case inCheck && !hasMoves:
		return Checkmate, nil
	case inCheck:
		return Check, nil
	case !hasMoves:
		return Stalemate, nil
	}
	return Ongoing, nil
}
