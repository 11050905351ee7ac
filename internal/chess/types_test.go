package chess

import (
	"encoding/json"
	"testing"
)

func TestColour(t *testing.T) {
	if White.Opposite() != Black || Black.Opposite() != White {
		t.Error("Opposite() is not an involution")
	}
	if ColourOffset(White) != 1 || ColourOffset(Black) != -1 {
		t.Error("ColourOffset wrong")
	}
	if HomeRank(White) != 2 || HomeRank(Black) != 7 {
		t.Error("HomeRank wrong")
	}
	if PromotionRank(White) != 8 || PromotionRank(Black) != 1 {
		t.Error("PromotionRank wrong")
	}

	for _, in := range []string{"white", "WHITE", " White ", "w"} {
		if c, err := ParseColour(in); err != nil || c != White {
			t.Errorf("ParseColour(%q) = %v, %v; want WHITE", in, c, err)
		}
	}
	if _, err := ParseColour("OBSERVER"); err == nil {
		t.Error("ParseColour(OBSERVER) should fail")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"QUEEN", Queen, false},
		{"queen", Queen, false},
		{"q", Queen, false},
		{"N", Knight, false},
		{"knight", Knight, false},
		{"", NoKind, false},
		{"dragon", NoKind, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPieceEquality(t *testing.T) {
	if W(Pawn) != NewPiece(White, Pawn) {
		t.Error("two white pawns should be interchangeable")
	}
	if W(Pawn) == B(Pawn) {
		t.Error("pawns of different colours should differ")
	}
	if !(Piece{}).IsEmpty() {
		t.Error("zero Piece should be empty")
	}
	if W(Knight).Letter() != 'N' || B(Knight).Letter() != 'n' {
		t.Error("Letter() case wrong")
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"a1", Pos(1, 1), false},
		{"e4", Pos(4, 5), false},
		{"H8", Pos(8, 8), false},
		{"i1", Position{}, true},
		{"a9", Position{}, true},
		{"a", Position{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePosition(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePosition(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePosition(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := Pos(4, 5).String(); got != "e4" {
		t.Errorf("String() = %q; want e4", got)
	}
	if Pos(0, 3).Valid() || Pos(3, 9).Valid() {
		t.Error("off-board positions reported valid")
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in      string
		want    Move
		wantErr bool
	}{
		{"e2e4", NewMove(Pos(2, 5), Pos(4, 5), NoKind), false},
		{"e2-e4", NewMove(Pos(2, 5), Pos(4, 5), NoKind), false},
		{"e2 e4", NewMove(Pos(2, 5), Pos(4, 5), NoKind), false},
		{"a7a8q", NewMove(Pos(7, 1), Pos(8, 1), Queen), false},
		{"a7 a8 knight", NewMove(Pos(7, 1), Pos(8, 1), Knight), false},
		{"a7a8k", Move{}, true},
		{"e2", Move{}, true},
		{"z2e4", Move{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMove(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMove(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMove(%q) = %+v; want %+v", tt.in, got, tt.want)
			}
		})
	}

	if got := NewMove(Pos(7, 1), Pos(8, 1), Rook).String(); got != "a7a8r" {
		t.Errorf("String() = %q; want a7a8r", got)
	}
}

func TestMoveJSON(t *testing.T) {
	m := NewMove(Pos(2, 7), Pos(1, 8), Queen)
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"g2h1q"` {
		t.Errorf("Marshal = %s; want \"g2h1q\"", data)
	}

	var back Move
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != m {
		t.Errorf("Unmarshal = %+v; want %+v", back, m)
	}
}
