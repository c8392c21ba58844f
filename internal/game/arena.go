package game

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Build-time constants. These are part of the game rules and are not
// runtime configurable; only the arena dimensions are.
const (
	PuckSize     = 22.0 // Puck bounding box edge in arena pixels
	PaddleSize   = 80.0 // Paddle bounding box edge in arena pixels
	PuckSpeed    = 4.0  // Units per tick on each axis
	PaddleMargin = 20.0 // Gap between a paddle's legal region and its goal line
	WinScore     = 10   // Goals needed in first-to-10 mode
	RoundSeconds = 60   // Length of a timed round
)

// Default arena used by the server when no override is configured.
const (
	DefaultArenaWidth  = 360.0
	DefaultArenaHeight = 600.0
)

// Vector2 is a position or velocity in arena-relative pixels.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// IsFinite reports whether both components are real numbers.
func (v Vector2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Overlaps reports strict AABB overlap. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X+r.W > o.X &&
		r.X < o.X+o.W &&
		r.Y+r.H > o.Y &&
		r.Y < o.Y+o.H
}

// Region is an inclusive range of legal top-left positions.
type Region struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Clamp moves p to the nearest point inside the region.
func (r Region) Clamp(p Vector2) Vector2 {
	return Vector2{
		X: clamp(p.X, r.MinX, r.MaxX),
		Y: clamp(p.Y, r.MinY, r.MaxY),
	}
}

// Contains reports whether p lies inside the region (edges included).
func (r Region) Contains(p Vector2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Arena is the playing surface. It is immutable for the lifetime of an engine.
type Arena struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultArena returns the 360x600 board.
func DefaultArena() Arena {
	return Arena{Width: DefaultArenaWidth, Height: DefaultArenaHeight}
}

// Valid reports whether both paddles' legal regions are non-empty.
func (a Arena) Valid() bool {
	if a.Width < PaddleSize || a.Height <= 0 {
		return false
	}
	bottom, top := a.PaddleRegion(SideBottom), a.PaddleRegion(SideTop)
	return bottom.MinY <= bottom.MaxY && top.MinY <= top.MaxY
}

// Center is the puck's serve position.
func (a Arena) Center() Vector2 {
	return Vector2{
		X: a.Width/2 - PuckSize/2,
		Y: a.Height/2 - PuckSize/2,
	}
}

// PuckMaxX is the right wall as seen by the puck's left edge.
func (a Arena) PuckMaxX() float64 { return a.Width - PuckSize }

// PuckMaxY is the bottom goal line as seen by the puck's top edge.
func (a Arena) PuckMaxY() float64 { return a.Height - PuckSize }

// PaddleRegion returns the legal region for the given side's paddle.
//
//	bottom: x in [0, W-P], y in [H/2, H-P-20]
//	top:    x in [0, W-P], y in [20, H/2-P]
func (a Arena) PaddleRegion(side Side) Region {
	r := Region{MinX: 0, MaxX: a.Width - PaddleSize}
	if side == SideTop {
		r.MinY = PaddleMargin
		r.MaxY = a.Height/2 - PaddleSize
	} else {
		r.MinY = a.Height / 2
		r.MaxY = a.Height - PaddleSize - PaddleMargin
	}
	return r
}

// PaddleSpawn returns where a paddle starts a match: horizontally centered,
// pressed against its own end of the legal region.
func (a Arena) PaddleSpawn(side Side) Vector2 {
	x := a.Width/2 - PaddleSize/2
	if side == SideTop {
		return Vector2{X: x, Y: PaddleMargin}
	}
	return Vector2{X: x, Y: a.Height - PaddleSize - PaddleMargin}
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
