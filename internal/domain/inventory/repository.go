package inventory

import (
	"context"
)

// Snapshot is one whole-collection read of the ledger together with its
// persistence revision. Mutations recompute a new snapshot in memory and
// write it back in a single Save.
type Snapshot struct {
	Units []InventoryUnit
	// Rev is the optimistic concurrency token. Save fails with
	// CONCURRENT_MODIFICATION when the stored revision has moved on.
	Rev uint64
}

// Repository persists the inventory ledger as a single ordered collection.
// Implementations must preserve insertion order on Load.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
