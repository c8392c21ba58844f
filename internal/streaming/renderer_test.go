package streaming

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"air-hockey/internal/game"
)

func runningSnapshot() *game.GameSnapshot {
	arena := game.DefaultArena()
	return &game.GameSnapshot{
		Sequence: 1,
		Arena:    arena,
		Puck:     arena.Center(),
		Bottom:   game.PaddleSnapshot{Side: game.SideBottom, X: 140, Y: 500},
		Top:      game.PaddleSnapshot{Side: game.SideTop, X: 140, Y: 20},
		Mode:     game.ModeFirstTo10,
		Phase:    game.PhaseRunning,
		Score1:   3,
		Score2:   2,
	}
}

func newTestRenderer(scale float64) *Renderer {
	return NewRenderer(game.DefaultArena(), RenderConfig{Scale: scale, JPEGQuality: 80})
}

func TestRendererSize(t *testing.T) {
	tests := []struct {
		scale         float64
		width, height int
	}{
		{1, 360, 600},
		{2, 720, 1200},
		{0, 360, 600}, // invalid scale falls back to 1
	}

	for _, tt := range tests {
		w, h := newTestRenderer(tt.scale).Size()
		if w != tt.width || h != tt.height {
			t.Errorf("scale %v: expected %dx%d, got %dx%d", tt.scale, tt.width, tt.height, w, h)
		}
	}
}

func TestWritePNGDecodes(t *testing.T) {
	r := newTestRenderer(1)

	var buf bytes.Buffer
	if err := r.WritePNG(&buf, runningSnapshot()); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 360 || b.Dy() != 600 {
		t.Errorf("Expected 360x600, got %v", b)
	}

	stats := r.GetStats()
	if stats["framesRendered"].(int64) != 1 {
		t.Errorf("Expected 1 frame rendered, got %v", stats["framesRendered"])
	}
}

func rgbAt(img *image.RGBA, x, y int) (uint8, uint8, uint8) {
	c := img.RGBAAt(x, y)
	return c.R, c.G, c.B
}

func TestRenderPieces(t *testing.T) {
	img := newTestRenderer(1).Render(runningSnapshot())

	// Outside the rounded board corner
	if r, g, b := rgbAt(img, 0, 0); r != 0x0b || g != 0x1c || b != 0x2d {
		t.Errorf("Expected backdrop at corner, got %d,%d,%d", r, g, b)
	}

	// Puck center (169+11, 289+11)
	if r, g, b := rgbAt(img, 180, 300); r != 255 || g != 255 || b != 255 {
		t.Errorf("Expected white puck, got %d,%d,%d", r, g, b)
	}

	// Bottom paddle center (140+40, 500+40) is cyan
	if r, g, b := rgbAt(img, 180, 540); r > 20 || g < 210 || b < 240 {
		t.Errorf("Expected cyan bottom paddle, got %d,%d,%d", r, g, b)
	}

	// Top paddle center (140+40, 20+40) is red
	if r, g, b := rgbAt(img, 180, 60); r < 240 || g > 140 || b > 140 {
		t.Errorf("Expected red top paddle, got %d,%d,%d", r, g, b)
	}
}

func TestRenderOverlays(t *testing.T) {
	r := newTestRenderer(1)

	for _, phase := range []game.Phase{game.PhaseMenu, game.PhaseFinished} {
		snap := runningSnapshot()
		snap.Phase = phase
		if phase == game.PhaseFinished {
			snap.Winner = game.Player1
		}

		img := r.Render(snap)
		// The overlay dims the bottom paddle
		if _, g, _ := rgbAt(img, 180, 540); g > 100 {
			t.Errorf("%s: expected dimmed paddle under overlay, got green %d", phase, g)
		}
	}
}

func TestRenderReturnsCopy(t *testing.T) {
	r := newTestRenderer(1)

	first := r.Render(runningSnapshot())
	before := first.RGBAAt(180, 540)

	moved := runningSnapshot()
	moved.Bottom.X = 0
	r.Render(moved)

	if first.RGBAAt(180, 540) != before {
		t.Error("A later render must not change an earlier frame")
	}
}

func TestRenderNilSnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := newTestRenderer(1).WriteJPEG(&buf, nil); err != nil {
		t.Fatalf("Nil snapshot should still render the board: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Expected JPEG bytes")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in         string
		r, g, b, a uint8
	}{
		{"#00e5ff", 0x00, 0xe5, 0xff, 0xff},
		{"#ffffff55", 0xff, 0xff, 0xff, 0x55},
		{"bogus", 0xff, 0xff, 0xff, 0xff},
	}

	for _, tt := range tests {
		c := parseHexColor(tt.in)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != tt.a {
			t.Errorf("parseHexColor(%q) = %+v", tt.in, c)
		}
	}
}
