// Package memory provides an in-memory collection store with the same
// revision semantics as the Postgres store. Used by tests and local
// development.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/domain/movement"
)

// collection holds one versioned collection. Items are cloned through
// JSON on both load and save so callers never alias stored state.
type collection[T any] struct {
	mu    sync.Mutex
	items []T
	rev   uint64
}

func (c *collection[T]) load() ([]T, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := clone(c.items)
	if err != nil {
		return nil, 0, err
	}
	return items, c.rev, nil
}

func (c *collection[T]) save(items []T, rev uint64, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rev != c.rev {
		return apperror.NewConcurrentModification("collection", key)
	}
	cloned, err := clone(items)
	if err != nil {
		return err
	}
	c.items = cloned
	c.rev++
	return nil
}

func clone[T any](items []T) ([]T, error) {
	if items == nil {
		return []T{}, nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("clone collection: %w", err)
	}
	var out []T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("clone collection: %w", err)
	}
	return out, nil
}

// UnitRepo implements inventory.Repository in memory.
type UnitRepo struct {
	c collection[inventory.InventoryUnit]
}

// NewUnitRepo creates an empty in-memory ledger.
func NewUnitRepo() *UnitRepo {
	return &UnitRepo{}
}

func (r *UnitRepo) Load(ctx context.Context) (inventory.Snapshot, error) {
	units, rev, err := r.c.load()
	if err != nil {
		return inventory.Snapshot{}, err
	}
	return inventory.Snapshot{Units: units, Rev: rev}, nil
}

func (r *UnitRepo) Save(ctx context.Context, snap inventory.Snapshot) error {
	return r.c.save(snap.Units, snap.Rev, "inventory_units")
}

// MovementRepo implements movement.Repository in memory.
type MovementRepo struct {
	c collection[movement.StockMovement]
}

// NewMovementRepo creates an empty in-memory movement journal.
func NewMovementRepo() *MovementRepo {
	return &MovementRepo{}
}

func (r *MovementRepo) Load(ctx context.Context) (movement.Snapshot, error) {
	movements, rev, err := r.c.load()
	if err != nil {
		return movement.Snapshot{}, err
	}
	return movement.Snapshot{Movements: movements, Rev: rev}, nil
}

func (r *MovementRepo) Save(ctx context.Context, snap movement.Snapshot) error {
	return r.c.save(snap.Movements, snap.Rev, "stock_movements")
}

// ModelRepo implements catalog.Repository in memory.
type ModelRepo struct {
	c collection[catalog.ItemModel]
}

// NewModelRepo creates an empty in-memory catalog.
func NewModelRepo() *ModelRepo {
	return &ModelRepo{}
}

func (r *ModelRepo) Load(ctx context.Context) (catalog.Snapshot, error) {
	models, rev, err := r.c.load()
	if err != nil {
		return catalog.Snapshot{}, err
	}
	return catalog.Snapshot{Models: models, Rev: rev}, nil
}

func (r *ModelRepo) Save(ctx context.Context, snap catalog.Snapshot) error {
	return r.c.save(snap.Models, snap.Rev, "item_models")
}

var (
	_ inventory.Repository = (*UnitRepo)(nil)
	_ movement.Repository  = (*MovementRepo)(nil)
	_ catalog.Repository   = (*ModelRepo)(nil)
)
