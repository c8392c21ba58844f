package game

// Paddle is a player's striker. The engine only ever stores positions that
// lie inside the side's legal region.
type Paddle struct {
	Side     Side
	Position Vector2
}

// NewPaddle places a paddle at its spawn point.
func NewPaddle(side Side, arena Arena) Paddle {
	return Paddle{Side: side, Position: arena.PaddleSpawn(side)}
}

// Box returns the paddle's collision box.
func (p Paddle) Box() Rect {
	return Rect{X: p.Position.X, Y: p.Position.Y, W: PaddleSize, H: PaddleSize}
}

// MoveTo clamps target into the legal region and stores it. It returns the
// stored position and whether clamping changed the target. Non-finite
// targets are rejected and leave the paddle where it was.
func (p *Paddle) MoveTo(target Vector2, arena Arena) (pos Vector2, clamped bool, ok bool) {
	if !target.IsFinite() {
		return p.Position, false, false
	}
	pos = arena.PaddleRegion(p.Side).Clamp(target)
	p.Position = pos
	return pos, pos != target, true
}
