package allocation

import (
	"context"
	"fmt"

	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/inventory"
)

// Resolver answers availability queries against the current ledger
// snapshot. Pure read, no side effects.
type Resolver struct {
	units inventory.Repository
}

// NewResolver creates an availability resolver.
func NewResolver(units inventory.Repository) *Resolver {
	return &Resolver{units: units}
}

// CheckAvailability reports whether quantityNeeded of (itemName, brand)
// can be sourced from units currently in storage.
//
// The group is treated as measurement when any eligible unit carries an
// initial balance; this is the data-shape heuristic. The consumption
// engine additionally consults catalog metadata, which is authoritative;
// both signals agree in well-formed data.
//
// Count-group candidates are recommended in ledger order, not FIFO by
// registration date. The engine's actual sourcing sorts oldest-first, so
// the two can disagree about which units get picked when the ledger was
// not appended in registration order.
func (r *Resolver) CheckAvailability(ctx context.Context, itemName, brand string, quantityNeeded types.Quantity) (Availability, error) {
	snap, err := r.units.Load(ctx)
	if err != nil {
		return Availability{}, fmt.Errorf("load units: %w", err)
	}

	eligible := make([]*inventory.InventoryUnit, 0)
	measurement := false
	for i := range snap.Units {
		u := &snap.Units[i]
		if !u.Matches(itemName, brand) || !u.Allocatable() {
			continue
		}
		eligible = append(eligible, u)
		if u.IsMeasurement() {
			measurement = true
		}
	}

	if len(eligible) == 0 {
		return Availability{
			Available:            0,
			Sufficient:           quantityNeeded <= 0,
			RecommendedSourceIDs: []id.ID{},
		}, nil
	}

	if measurement {
		var total types.Quantity
		ids := make([]id.ID, 0, len(eligible))
		for _, u := range eligible {
			total += u.EffectiveBalance()
			ids = append(ids, u.ID)
		}
		return Availability{
			Available:            total,
			Sufficient:           total >= quantityNeeded,
			Measurement:          true,
			RecommendedSourceIDs: ids,
		}, nil
	}

	need := quantityNeeded.Units()
	if need < 0 {
		need = 0
	}
	ids := make([]id.ID, 0, min(need, len(eligible)))
	for _, u := range eligible {
		if len(ids) >= need {
			break
		}
		ids = append(ids, u.ID)
	}
	return Availability{
		Available:            types.NewQuantityFromInt(len(eligible)),
		Sufficient:           len(eligible) >= need,
		RecommendedSourceIDs: ids,
	}, nil
}
