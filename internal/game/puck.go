package game

import "math/rand"

// Puck is the moving disc. Its velocity is private to the engine; only the
// position is ever published.
type Puck struct {
	Position Vector2
	velocity Vector2
}

// NewPuck serves a puck from the arena center with a random diagonal
// direction.
func NewPuck(arena Arena, rng *rand.Rand) Puck {
	return Puck{
		Position: arena.Center(),
		velocity: Vector2{X: PuckSpeed * randomSign(rng), Y: PuckSpeed * randomSign(rng)},
	}
}

// Box returns the puck's collision box at its current position.
func (p Puck) Box() Rect {
	return Rect{X: p.Position.X, Y: p.Position.Y, W: PuckSize, H: PuckSize}
}

func randomSign(rng *rand.Rand) float64 {
	if rng.Intn(2) == 0 {
		return -1
	}
	return 1
}
