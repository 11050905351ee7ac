package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/testutil"
)

func TestRenderBoard_WhitePerspective(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBoard(&buf, engine.NewGame().Board(), chess.White, nil)
	testutil.AssertNoError(t, err)

	want := strings.Join([]string{
		"    a  b  c  d  e  f  g  h    ",
		" 8  r  n  b  q  k  b  n  r  8 ",
		" 7  p  p  p  p  p  p  p  p  7 ",
		" 6  .  .  .  .  .  .  .  .  6 ",
		" 5  .  .  .  .  .  .  .  .  5 ",
		" 4  .  .  .  .  .  .  .  .  4 ",
		" 3  .  .  .  .  .  .  .  .  3 ",
		" 2  P  P  P  P  P  P  P  P  2 ",
		" 1  R  N  B  Q  K  B  N  R  1 ",
		"    a  b  c  d  e  f  g  h    ",
		"",
	}, "\n")
	testutil.AssertEqual(t, buf.String(), want)
}

func TestRenderBoard_BlackPerspective(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBoard(&buf, engine.NewGame().Board(), chess.Black, nil)
	testutil.AssertNoError(t, err)

	lines := strings.Split(buf.String(), "\n")
	testutil.AssertEqual(t, lines[0], "    h  g  f  e  d  c  b  a    ")
	testutil.AssertEqual(t, lines[1], " 1  R  N  B  K  Q  B  N  R  1 ")
	testutil.AssertEqual(t, lines[8], " 8  r  n  b  k  q  b  n  r  8 ")
}

func TestRenderBoard_Highlights(t *testing.T) {
	g := engine.NewGame()
	e2 := chess.Pos(2, 5)
	highlights := []chess.Position{e2}
	for _, m := range g.ValidMoves(e2) {
		highlights = append(highlights, m.End)
	}

	var buf bytes.Buffer
	testutil.AssertNoError(t, RenderBoard(&buf, g.Board(), chess.White, highlights))

	lines := strings.Split(buf.String(), "\n")
	testutil.AssertEqual(t, lines[5], " 4  .  .  .  . [.] .  .  .  4 ")
	testutil.AssertEqual(t, lines[6], " 3  .  .  .  . [.] .  .  .  3 ")
	testutil.AssertEqual(t, lines[7], " 2  P  P  P  P [P] P  P  P  2 ")
}

func TestRenderer_ANSIAndUnicode(t *testing.T) {
	var buf bytes.Buffer
	r := Renderer{ANSI: true, Unicode: true}
	err := r.Render(&buf, engine.NewGame().Board(), chess.White, []chess.Position{chess.Pos(1, 1)})
	testutil.AssertNoError(t, err)

	out := buf.String()
	testutil.AssertContains(t, out, "♔")
	testutil.AssertContains(t, out, "♟")
	testutil.AssertContains(t, out, ansiHighlight)
	testutil.AssertContains(t, out, ansiReset)
	testutil.AssertEqual(t, strings.Count(out, "\n"), 10)
}
