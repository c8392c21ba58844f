package streaming

import (
	"air-hockey/internal/game"
)

// SnapshotSource is an interface for getting game snapshots.
// *game.Engine satisfies it directly.
type SnapshotSource interface {
	GetSnapshot() *game.GameSnapshot
}
