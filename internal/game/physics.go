package game

// Advance runs one fixed physics step and returns the next puck state.
//
// The candidate position is used for every test and is never clamped, so
// the puck may overshoot a wall by up to one step before the reflected
// velocity carries it back. Paddle contact only flips the vertical
// component and is re-evaluated every step while the boxes overlap.
//
// When a goal line is crossed the step is abandoned: the returned puck is
// the receiver unchanged and the caller is expected to re-serve.
func (p Puck) Advance(bottom, top Paddle, arena Arena) (Puck, Goal) {
	next := p.Position.Add(p.velocity)
	vel := p.velocity

	// Walls
	if next.X <= 0 || next.X >= arena.PuckMaxX() {
		vel.X = -vel.X
	}

	// Paddles
	box := Rect{X: next.X, Y: next.Y, W: PuckSize, H: PuckSize}
	if box.Overlaps(bottom.Box()) || box.Overlaps(top.Box()) {
		vel.Y = -vel.Y
	}

	// Goal lines
	if next.Y <= 0 {
		return p, GoalTop
	}
	if next.Y >= arena.PuckMaxY() {
		return p, GoalBottom
	}

	return Puck{Position: next, velocity: vel}, GoalNone
}
