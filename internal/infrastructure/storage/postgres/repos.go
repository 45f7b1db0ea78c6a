package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/domain/movement"
)

// Collection keys. One row per collection in sys_collections.
const (
	KeyInventoryUnits = "inventory_units"
	KeyStockMovements = "stock_movements"
	KeyItemModels     = "item_models"
)

// collection binds a document key to an element type.
type collection[T any] struct {
	store *CollectionStore
	key   string
}

func (c collection[T]) load(ctx context.Context) ([]T, uint64, error) {
	payload, rev, err := c.store.Load(ctx, c.key)
	if err != nil {
		return nil, 0, err
	}
	if len(payload) == 0 {
		return nil, rev, nil
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, 0, fmt.Errorf("decode collection %s: %w", c.key, err)
	}
	return items, rev, nil
}

func (c collection[T]) save(ctx context.Context, items []T, rev uint64) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", c.key, err)
	}
	return c.store.Save(ctx, c.key, payload, rev)
}

// UnitRepo implements inventory.Repository over the collection store.
type UnitRepo struct {
	c collection[inventory.InventoryUnit]
}

// NewUnitRepo creates the inventory ledger repository.
func NewUnitRepo(store *CollectionStore) *UnitRepo {
	return &UnitRepo{c: collection[inventory.InventoryUnit]{store: store, key: KeyInventoryUnits}}
}

func (r *UnitRepo) Load(ctx context.Context) (inventory.Snapshot, error) {
	units, rev, err := r.c.load(ctx)
	if err != nil {
		return inventory.Snapshot{}, err
	}
	return inventory.Snapshot{Units: units, Rev: rev}, nil
}

func (r *UnitRepo) Save(ctx context.Context, snap inventory.Snapshot) error {
	return r.c.save(ctx, snap.Units, snap.Rev)
}

// MovementRepo implements movement.Repository over the collection store.
type MovementRepo struct {
	c collection[movement.StockMovement]
}

// NewMovementRepo creates the stock movement repository.
func NewMovementRepo(store *CollectionStore) *MovementRepo {
	return &MovementRepo{c: collection[movement.StockMovement]{store: store, key: KeyStockMovements}}
}

func (r *MovementRepo) Load(ctx context.Context) (movement.Snapshot, error) {
	movements, rev, err := r.c.load(ctx)
	if err != nil {
		return movement.Snapshot{}, err
	}
	return movement.Snapshot{Movements: movements, Rev: rev}, nil
}

func (r *MovementRepo) Save(ctx context.Context, snap movement.Snapshot) error {
	return r.c.save(ctx, snap.Movements, snap.Rev)
}

// ModelRepo implements catalog.Repository over the collection store.
type ModelRepo struct {
	c collection[catalog.ItemModel]
}

// NewModelRepo creates the item-model catalog repository.
func NewModelRepo(store *CollectionStore) *ModelRepo {
	return &ModelRepo{c: collection[catalog.ItemModel]{store: store, key: KeyItemModels}}
}

func (r *ModelRepo) Load(ctx context.Context) (catalog.Snapshot, error) {
	models, rev, err := r.c.load(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	return catalog.Snapshot{Models: models, Rev: rev}, nil
}

func (r *ModelRepo) Save(ctx context.Context, snap catalog.Snapshot) error {
	return r.c.save(ctx, snap.Models, snap.Rev)
}

var (
	_ inventory.Repository = (*UnitRepo)(nil)
	_ movement.Repository  = (*MovementRepo)(nil)
	_ catalog.Repository   = (*ModelRepo)(nil)
)
