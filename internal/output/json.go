// Package output provides the game JSON codec and text board rendering.
package output

import (
	"encoding/json"
	"fmt"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
)

// JSONGame represents a game in JSON format: the side to move and every
// occupied square. It is the persisted form of a game and the payload of
// LOAD_GAME messages.
type JSONGame struct {
	Turn   chess.Colour `json:"turn"`
	Pieces []JSONPiece  `json:"pieces"`
}

// JSONPiece represents one occupied square.
type JSONPiece struct {
	Square chess.Position `json:"square"`
	Colour chess.Colour   `json:"colour"`
	Kind   chess.Kind     `json:"kind"`
}

// UnmarshalJSON decodes a game, rejecting a missing side to move.
func (jg *JSONGame) UnmarshalJSON(data []byte) error {
	var raw struct {
		Turn   *chess.Colour `json:"turn"`
		Pieces []JSONPiece   `json:"pieces"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Turn == nil {
		return fmt.Errorf("game has no turn")
	}
	*jg = JSONGame{Turn: *raw.Turn, Pieces: raw.Pieces}
	return nil
}

// UnmarshalJSON decodes a piece, rejecting a missing colour.
func (p *JSONPiece) UnmarshalJSON(data []byte) error {
	var raw struct {
		Square chess.Position `json:"square"`
		Colour *chess.Colour  `json:"colour"`
		Kind   chess.Kind     `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Colour == nil {
		return fmt.Errorf("piece on %s has no colour", raw.Square)
	}
	*p = JSONPiece{Square: raw.Square, Colour: *raw.Colour, Kind: raw.Kind}
	return nil
}

// GameToJSON converts a game to JSON format. White pieces come first, then
// black, each scanned rank 1 to 8 and file a to h.
func GameToJSON(game *engine.Game) *JSONGame {
	board := game.Board()
	jg := &JSONGame{
		Turn:   game.Turn(),
		Pieces: make([]JSONPiece, 0, board.Count()),
	}
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		for _, occ := range board.Pieces(colour) {
			jg.Pieces = append(jg.Pieces, JSONPiece{
				Square: occ.Position,
				Colour: occ.Piece.Colour,
				Kind:   occ.Piece.Kind,
			})
		}
	}
	return jg
}

// GameFromJSON rebuilds a game. It rejects off-board squares, empty kinds
// and two pieces on one square.
func GameFromJSON(jg *JSONGame) (*engine.Game, error) {
	if jg == nil {
		return nil, fmt.Errorf("decode game: no data")
	}
	board := chess.NewBoard()
	for _, p := range jg.Pieces {
		if !p.Square.Valid() {
			return nil, fmt.Errorf("decode game: square %s is off the board", p.Square)
		}
		if p.Kind == chess.NoKind {
			return nil, fmt.Errorf("decode game: piece on %s has no kind", p.Square)
		}
		if _, taken := board.Get(p.Square); taken {
			return nil, fmt.Errorf("decode game: two pieces on %s", p.Square)
		}
		board.Add(p.Square, chess.NewPiece(p.Colour, p.Kind))
	}
	g := engine.NewGame()
	g.SetBoard(board)
	g.SetTurn(jg.Turn)
	return g, nil
}

// MarshalGame encodes a game as JSON.
func MarshalGame(game *engine.Game) ([]byte, error) {
	return json.Marshal(GameToJSON(game))
}

// UnmarshalGame decodes a game produced by MarshalGame.
func UnmarshalGame(data []byte) (*engine.Game, error) {
	var jg JSONGame
	if err := json.Unmarshal(data, &jg); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return GameFromJSON(&jg)
}
