// Package streaming renders match snapshots to images for the HTTP frame
// endpoints: a PNG still and a multipart MJPEG stream.
package streaming

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"air-hockey/internal/game"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Board palette
var (
	colorBackdrop     = parseHexColor("#0b1c2d")
	colorBoard        = parseHexColor("#1e3a5f")
	colorMarkings     = parseHexColor("#ffffff55")
	colorPuck         = parseHexColor("#ffffff")
	colorPaddleBottom = parseHexColor("#00e5ff")
	colorPaddleTop    = parseHexColor("#ff7675")
	colorLabel        = parseHexColor("#aaaaaa")
	colorOverlay      = parseHexColor("#000000cc")
	colorButton       = parseHexColor("#00e5ff")
	colorButtonText   = parseHexColor("#000033")
)

// RenderConfig holds renderer settings
type RenderConfig struct {
	Scale       float64 // Output pixels per arena pixel
	JPEGQuality int
	FontPath    string // Optional TTF; falls back to the built-in bitmap face
}

// Renderer draws snapshots with a single reusable gg context. Calls are
// serialized; each one fully redraws the frame from the snapshot.
type Renderer struct {
	config RenderConfig
	arena  game.Arena
	width  int
	height int

	mu sync.Mutex
	dc *gg.Context

	fontSmall   font.Face
	fontLarge   font.Face
	fontsLoaded bool

	framesRendered  atomic.Int64
	renderTimeAccum atomic.Int64 // nanoseconds
}

// NewRenderer creates a renderer sized for the arena at the configured scale.
func NewRenderer(arena game.Arena, cfg RenderConfig) *Renderer {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = jpeg.DefaultQuality
	}

	width := int(math.Ceil(arena.Width * cfg.Scale))
	height := int(math.Ceil(arena.Height * cfg.Scale))

	r := &Renderer{
		config: cfg,
		arena:  arena,
		width:  width,
		height: height,
		dc:     gg.NewContext(width, height),
	}
	r.loadFonts()
	return r
}

// loadFonts loads fonts once at startup to avoid per-frame file I/O
func (r *Renderer) loadFonts() {
	fontPath := r.config.FontPath
	if fontPath == "" {
		fontPath = getFontPath()
	}
	if fontPath == "" {
		return
	}

	fontData, err := os.ReadFile(fontPath)
	if err != nil {
		log.Printf("⚠️ Failed to read font file: %v", err)
		return
	}
	parsedFont, err := opentype.Parse(fontData)
	if err != nil {
		log.Printf("⚠️ Failed to parse font: %v", err)
		return
	}

	r.fontSmall, err = opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("⚠️ Failed to create small font face: %v", err)
		return
	}
	r.fontLarge, err = opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    28,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("⚠️ Failed to create large font face: %v", err)
		return
	}

	r.fontsLoaded = true
	log.Printf("✅ Fonts loaded from: %s", fontPath)
}

// Size returns the output frame dimensions in pixels.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render draws snap and returns a copy of the frame.
func (r *Renderer) Render(snap *game.GameSnapshot) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(snap)
	src := r.dc.Image().(*image.RGBA)
	out := image.NewRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

// WritePNG renders snap and encodes it as PNG.
func (r *Renderer) WritePNG(w io.Writer, snap *game.GameSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(snap)
	if err := png.Encode(w, r.dc.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteJPEG renders snap and encodes it as JPEG at the configured quality.
func (r *Renderer) WriteJPEG(w io.Writer, snap *game.GameSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(snap)
	if err := jpeg.Encode(w, r.dc.Image(), &jpeg.Options{Quality: r.config.JPEGQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// GetStats returns renderer statistics
func (r *Renderer) GetStats() map[string]interface{} {
	frames := r.framesRendered.Load()
	avg := time.Duration(0)
	if frames > 0 {
		avg = time.Duration(r.renderTimeAccum.Load() / frames)
	}
	return map[string]interface{}{
		"framesRendered": frames,
		"avgRenderTime":  avg.String(),
		"resolution":     fmt.Sprintf("%dx%d", r.width, r.height),
		"fontsLoaded":    r.fontsLoaded,
	}
}

// draw renders the whole frame in arena coordinates. Caller holds r.mu.
func (r *Renderer) draw(snap *game.GameSnapshot) {
	start := time.Now()
	dc := r.dc

	dc.Identity()
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.Scale(r.config.Scale, r.config.Scale)

	w, h := r.arena.Width, r.arena.Height

	r.drawBoard(dc, w, h)
	if snap != nil {
		r.drawPieces(dc, snap)
		r.drawHUD(dc, snap, w, h)

		switch snap.Phase {
		case game.PhaseMenu:
			r.drawMenu(dc, w, h)
		case game.PhaseFinished:
			r.drawWinner(dc, snap, w, h)
		}
	}

	r.framesRendered.Add(1)
	r.renderTimeAccum.Add(time.Since(start).Nanoseconds())
}

func (r *Renderer) drawBoard(dc *gg.Context, w, h float64) {
	dc.SetColor(colorBoard)
	dc.DrawRoundedRectangle(0, 0, w, h, 20)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetLineWidth(4)
	dc.DrawRoundedRectangle(2, 2, w-4, h-4, 18)
	dc.Stroke()

	// Center line and circle
	dc.SetColor(colorMarkings)
	dc.SetLineWidth(2)
	dc.DrawLine(0, h/2, w, h/2)
	dc.Stroke()
	dc.DrawCircle(w/2, h/2, 40)
	dc.Stroke()
}

func (r *Renderer) drawPieces(dc *gg.Context, snap *game.GameSnapshot) {
	const puckRadius = game.PuckSize / 2
	const paddleRadius = game.PaddleSize / 2

	dc.SetColor(colorPuck)
	dc.DrawCircle(snap.Puck.X+puckRadius, snap.Puck.Y+puckRadius, puckRadius)
	dc.Fill()

	for _, p := range []game.PaddleSnapshot{snap.Top, snap.Bottom} {
		fill := colorPaddleBottom
		if p.Side == game.SideTop {
			fill = colorPaddleTop
		}
		cx, cy := p.X+paddleRadius, p.Y+paddleRadius

		dc.SetColor(fill)
		dc.DrawCircle(cx, cy, paddleRadius)
		dc.Fill()

		dc.SetColor(color.White)
		dc.SetLineWidth(3)
		dc.DrawCircle(cx, cy, paddleRadius-1.5)
		dc.Stroke()
	}
}

func (r *Renderer) drawHUD(dc *gg.Context, snap *game.GameSnapshot, w, h float64) {
	r.useSmallFont(dc)

	// Each player's score sits on their own half, just off the center line
	dc.SetColor(colorLabel)
	dc.DrawStringAnchored("Player 2", 12, h/2-28, 0, 0.5)
	dc.DrawStringAnchored("Player 1", 12, h/2+16, 0, 0.5)

	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("%d", snap.Score2), 12, h/2-14, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%d", snap.Score1), 12, h/2+30, 0, 0.5)

	if snap.Mode == game.ModeTimed {
		dc.DrawStringAnchored(fmt.Sprintf("%ds", snap.TimeLeft), w-12, h/2-14, 1, 0.5)
	}
}

func (r *Renderer) drawMenu(dc *gg.Context, w, h float64) {
	r.drawOverlay(dc, w, h)

	r.useLargeFont(dc)
	dc.SetColor(color.White)
	dc.DrawStringAnchored("AIR HOCKEY", w/2, h/2-70, 0.5, 0.5)

	r.drawButton(dc, "First to 10", w/2, h/2)
	r.drawButton(dc, "1 Minute Match", w/2, h/2+56)
}

func (r *Renderer) drawWinner(dc *gg.Context, snap *game.GameSnapshot, w, h float64) {
	r.drawOverlay(dc, w, h)

	r.useLargeFont(dc)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("%s Wins", snap.Winner), w/2, h/2-40, 0.5, 0.5)

	r.drawButton(dc, "Restart", w/2, h/2+20)
}

func (r *Renderer) drawOverlay(dc *gg.Context, w, h float64) {
	dc.SetColor(colorOverlay)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

func (r *Renderer) drawButton(dc *gg.Context, label string, cx, cy float64) {
	const bw, bh = 180.0, 40.0

	dc.SetColor(colorButton)
	dc.DrawRoundedRectangle(cx-bw/2, cy-bh/2, bw, bh, 12)
	dc.Fill()

	r.useSmallFont(dc)
	dc.SetColor(colorButtonText)
	dc.DrawStringAnchored(label, cx, cy, 0.5, 0.5)
}

// Glyphs go through the context matrix like every other shape, so faces are
// sized in arena pixels.
func (r *Renderer) useSmallFont(dc *gg.Context) {
	if r.fontsLoaded {
		dc.SetFontFace(r.fontSmall)
	}
}

func (r *Renderer) useLargeFont(dc *gg.Context) {
	if r.fontsLoaded {
		dc.SetFontFace(r.fontLarge)
	}
}

// parseHexColor accepts #rrggbb and #rrggbbaa (straight alpha)
func parseHexColor(hex string) color.NRGBA {
	var r, g, b uint8
	a := uint8(255)
	switch {
	case len(hex) == 7 && hex[0] == '#':
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	case len(hex) == 9 && hex[0] == '#':
		fmt.Sscanf(hex[1:], "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return color.NRGBA{255, 255, 255, 255}
	}
	return color.NRGBA{r, g, b, a}
}

func getFontPath() string {
	// Try common font locations
	paths := []string{
		"C:\\Windows\\Fonts\\arial.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	matches, _ := filepath.Glob("*.ttf")
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}
