package game

import (
	"sync/atomic"
	"time"
)

// PaddleSnapshot is an immutable copy of a paddle for rendering.
type PaddleSnapshot struct {
	Side Side    `json:"side"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// GameSnapshot is the read-only view of the engine handed to presentation
// layers. It is built under the engine lock and never mutated afterwards,
// so it may be shared freely between goroutines.
//
// The puck's velocity is deliberately absent.
type GameSnapshot struct {
	Sequence   uint64    `json:"sequence"`   // Monotonic publish counter
	Timestamp  time.Time `json:"timestamp"`  // When the snapshot was published
	TickNumber uint64    `json:"tickNumber"` // Physics ticks run in this match
	MatchID    string    `json:"matchId"`    // Empty while on the menu

	Arena  Arena          `json:"arena"`
	Puck   Vector2        `json:"puck"`
	Bottom PaddleSnapshot `json:"paddleBottom"`
	Top    PaddleSnapshot `json:"paddleTop"`

	Mode     Mode   `json:"mode"`
	Phase    Phase  `json:"phase"`
	Score1   int    `json:"score1"`
	Score2   int    `json:"score2"`
	TimeLeft int    `json:"timeLeft"`
	Winner   Player `json:"winner"`
}

// Paddle returns the snapshot of the given side's paddle.
func (s *GameSnapshot) Paddle(side Side) PaddleSnapshot {
	if side == SideTop {
		return s.Top
	}
	return s.Bottom
}

// SnapshotStore publishes snapshots for lock-free readers. The producer
// always allocates a fresh value, so a reader's pointer stays valid and
// unchanged for as long as it holds it.
type SnapshotStore struct {
	current  atomic.Pointer[GameSnapshot]
	sequence atomic.Uint64
}

// NewSnapshotStore creates a store seeded with an empty snapshot so that
// readers never see nil.
func NewSnapshotStore() *SnapshotStore {
	s := &SnapshotStore{}
	s.current.Store(&GameSnapshot{})
	return s
}

// Publish stamps snap with the next sequence number and makes it current.
func (s *SnapshotStore) Publish(snap *GameSnapshot) {
	snap.Sequence = s.sequence.Add(1)
	snap.Timestamp = time.Now()
	s.current.Store(snap)
}

// Load returns the latest published snapshot.
func (s *SnapshotStore) Load() *GameSnapshot {
	return s.current.Load()
}
