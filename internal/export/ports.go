// Package export defines the ports for mirroring the transaction ledger to
// an external backup destination.
package export

import (
	"context"

	"pennyguard/internal/core"
)

// SnapshotWriter replaces the destination's contents with the given
// full ledger snapshot. Implementations must be idempotent: writing the
// same snapshot twice leaves the destination identical.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, txs []core.Transaction) error
}
