package allocation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fieldstock/internal/core/apperror"
	appctx "fieldstock/internal/core/context"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/domain/movement"
	"fieldstock/pkg/logger"
)

// Engine performs stock consumption: it decrements measured balances,
// flips discrete units to in-use and records the resulting movements.
//
// All per-unit commitments are accumulated in memory and applied in one
// batched ledger write, so a concurrent reader never observes a half
// applied batch. Cross-call isolation comes from the repository's
// optimistic revision check plus the engine's own mutex serializing
// in-process calls.
type Engine struct {
	units     inventory.Repository
	movements *movement.Log
	metadata  MetadataProvider

	mu sync.Mutex
}

// NewEngine creates a consumption engine. metadata may be nil; the
// engine then classifies purely from ledger data shape.
func NewEngine(units inventory.Repository, movements *movement.Log, metadata MetadataProvider) *Engine {
	return &Engine{
		units:     units,
		movements: movements,
		metadata:  metadata,
	}
}

// pendingCommit is the provisional state of one unit within a batch.
// A batch may touch the same physical unit from two different requested
// lines; commitments accumulate here instead of clobbering each other.
type pendingCommit struct {
	balance  types.Quantity // provisional remaining balance (measurement)
	consumed bool           // measurement unit exhausted
	taken    bool           // count unit assigned
}

// ConsumeMaterials fulfills the requested material lines in list order.
//
// Shortfalls and invalid pinned references are reported through
// Result.Warnings; the call still commits whatever partial allocation
// was possible. Only structural failures (persistence errors, invalid
// input) return a non-nil error, and then nothing is committed.
func (e *Engine) ConsumeMaterials(ctx context.Context, materials []Request, cctx ConsumeContext) (Result, error) {
	for i, m := range materials {
		if m.ItemName == "" {
			return Result{}, apperror.NewValidation(fmt.Sprintf("material %d: item name is required", i))
		}
		if !m.Quantity.IsPositive() {
			return Result{}, apperror.NewValidation(fmt.Sprintf("material %d: quantity must be positive", i))
		}
	}
	if len(materials) == 0 {
		return Result{Success: true, Warnings: []string{}}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.units.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load units: %w", err)
	}

	actor := cctx.Actor
	if actor == "" {
		actor = appctx.GetActorName(ctx)
	}
	reference := cctx.DocNumber
	if reference == "" {
		reference = "Usage"
	}

	warnings := []string{}
	pending := make(map[id.ID]*pendingCommit)
	entries := make([]movement.Entry, 0, len(materials))
	now := time.Now().UTC()

	for _, req := range materials {
		measurement, err := e.classify(ctx, snap.Units, req.ItemName, req.Brand)
		if err != nil {
			return Result{}, err
		}

		candidates, warn := e.candidates(snap.Units, pending, req)
		if warn != "" {
			warnings = append(warnings, warn)
		}

		if measurement {
			short := consumeMeasured(candidates, pending, req.Quantity)
			if short.IsPositive() {
				warnings = append(warnings, shortfallWarning(req, short))
			}
		} else {
			short := consumeCounted(candidates, pending, req.Quantity.Units())
			if short > 0 {
				warnings = append(warnings, shortfallWarning(req, types.NewQuantityFromInt(short)))
			}
		}

		// One movement per requested line, carrying the requested
		// quantity even when fulfillment was partial.
		entries = append(entries, movement.Entry{
			ItemName:    req.ItemName,
			Brand:       req.Brand,
			Date:        now,
			Type:        movement.TypeOutInstallation,
			Quantity:    req.Quantity,
			ReferenceID: reference,
			Actor:       actor,
		})
	}

	// Apply all accumulated commitments in one batched write.
	for i := range snap.Units {
		u := &snap.Units[i]
		p, ok := pending[u.ID]
		if !ok {
			continue
		}
		switch {
		case p.taken:
			u.Status = inventory.StatusInUse
			u.CurrentUser = cctx.CustomerID
			u.Location = cctx.Location
			u.AppendActivity(actor, "Material Consumption",
				fmt.Sprintf("Assigned for installation (ref %s)", reference))
		case p.consumed:
			u.SetBalance(0)
			u.Status = inventory.StatusConsumed
			u.AppendActivity(actor, "Material Consumption",
				fmt.Sprintf("Balance exhausted (ref %s)", reference))
		default:
			u.SetBalance(p.balance)
			u.AppendActivity(actor, "Material Consumption",
				fmt.Sprintf("Balance reduced to %s (ref %s)", p.balance.String(), reference))
		}
		u.UpdatedAt = now
	}

	if err := e.units.Save(ctx, snap); err != nil {
		return Result{}, fmt.Errorf("save units: %w", err)
	}

	if _, err := e.movements.RecordBatch(ctx, entries); err != nil {
		return Result{}, fmt.Errorf("record movements: %w", err)
	}

	logger.Info(ctx, "materials consumed",
		"lines", len(materials),
		"touched_units", len(pending),
		"warnings", len(warnings),
		"reference", reference,
	)

	return Result{Success: true, Warnings: warnings}, nil
}

// classify determines measurement-vs-count for a group. Catalog metadata
// is authoritative; the ledger-shape heuristic (any matching unit with
// an initial balance) is the fallback when the catalog has no entry.
func (e *Engine) classify(ctx context.Context, units []inventory.InventoryUnit, itemName, brand string) (bool, error) {
	if e.metadata != nil {
		bulkType, found, err := e.metadata.Classify(ctx, itemName, brand)
		if err != nil {
			return false, fmt.Errorf("classify %s: %w", itemName, err)
		}
		if found {
			return bulkType == catalog.BulkMeasurement, nil
		}
	}
	for i := range units {
		if units[i].Matches(itemName, brand) && units[i].IsMeasurement() {
			return true, nil
		}
	}
	return false, nil
}

// candidates returns the source units for one request line. A valid
// pinned unit is the only candidate; an invalid pin degrades to
// automatic FIFO sourcing with a warning.
func (e *Engine) candidates(units []inventory.InventoryUnit, pending map[id.ID]*pendingCommit, req Request) ([]*inventory.InventoryUnit, string) {
	if req.MaterialUnitID != nil {
		pinID := *req.MaterialUnitID
		for i := range units {
			u := &units[i]
			if u.ID != pinID {
				continue
			}
			if u.Allocatable() && !exhausted(u, pending) {
				return []*inventory.InventoryUnit{u}, ""
			}
			break
		}
		return e.fifoCandidates(units, req),
			fmt.Sprintf("pinned unit %s is not available for %s (%s); falling back to automatic sourcing",
				pinID, req.ItemName, req.Brand)
	}
	return e.fifoCandidates(units, req), ""
}

// fifoCandidates returns all in-storage units of the group sorted by
// registration date ascending. Oldest stock is cut first.
func (e *Engine) fifoCandidates(units []inventory.InventoryUnit, req Request) []*inventory.InventoryUnit {
	out := make([]*inventory.InventoryUnit, 0)
	for i := range units {
		u := &units[i]
		if u.Matches(req.ItemName, req.Brand) && u.Allocatable() {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].RegisteredAt.Before(out[b].RegisteredAt)
	})
	return out
}

// exhausted reports whether earlier lines of this batch already used the
// unit up.
func exhausted(u *inventory.InventoryUnit, pending map[id.ID]*pendingCommit) bool {
	p, ok := pending[u.ID]
	if !ok {
		return false
	}
	return p.taken || p.consumed || !p.balance.IsPositive()
}

// consumeMeasured walks candidates tracking the remaining need. Each
// candidate contributes its effective balance: the stored balance minus
// whatever earlier lines of this batch already committed. Returns the
// unfilled remainder.
func consumeMeasured(candidates []*inventory.InventoryUnit, pending map[id.ID]*pendingCommit, need types.Quantity) types.Quantity {
	remaining := need
	for _, u := range candidates {
		if !remaining.IsPositive() {
			break
		}
		if !u.IsMeasurement() {
			continue
		}

		effective := u.EffectiveBalance()
		if p, ok := pending[u.ID]; ok {
			if p.consumed || p.taken {
				continue
			}
			effective = p.balance
		}
		if !effective.IsPositive() {
			continue
		}

		if effective >= remaining {
			pending[u.ID] = &pendingCommit{balance: effective - remaining}
			remaining = 0
		} else {
			pending[u.ID] = &pendingCommit{balance: 0, consumed: true}
			remaining -= effective
		}
	}
	return remaining
}

// consumeCounted takes up to need units from the front of the candidate
// list, skipping units earlier lines already claimed. Returns the count
// that could not be sourced.
func consumeCounted(candidates []*inventory.InventoryUnit, pending map[id.ID]*pendingCommit, need int) int {
	for _, u := range candidates {
		if need <= 0 {
			break
		}
		if _, ok := pending[u.ID]; ok {
			continue
		}
		pending[u.ID] = &pendingCommit{taken: true}
		need--
	}
	if need < 0 {
		need = 0
	}
	return need
}

func shortfallWarning(req Request, short types.Quantity) string {
	unit := req.Unit
	if unit == "" {
		unit = "unit(s)"
	}
	return fmt.Sprintf("insufficient stock for %s (%s): short %s %s",
		req.ItemName, req.Brand, short.String(), unit)
}
