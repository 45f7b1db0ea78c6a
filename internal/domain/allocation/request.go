// Package allocation provides the availability resolver and the
// allocation/consumption engine: given requested materials, it decides
// which physical inventory units satisfy the request, mutates the
// inventory ledger and emits stock movements.
package allocation

import (
	"context"

	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalog"
)

// Request is one requested material line.
type Request struct {
	// MaterialUnitID pins the request to a specific physical unit,
	// bypassing automatic sourcing. Optional.
	MaterialUnitID *id.ID `json:"materialUnitId,omitempty"`

	ItemName string         `json:"itemName"`
	Brand    string         `json:"brand"`
	Quantity types.Quantity `json:"quantity"`

	// Unit is the measure label quoted in shortfall warnings.
	Unit string `json:"unit,omitempty"`
}

// ConsumeContext stamps resulting unit assignments and movement
// references. Never validated here; validation is the caller's concern.
type ConsumeContext struct {
	CustomerID string `json:"customerId,omitempty"`
	Location   string `json:"location,omitempty"`
	DocNumber  string `json:"docNumber,omitempty"`
	Actor      string `json:"actor,omitempty"`
}

// Result reports the outcome of a consumption call. Shortfalls and
// soft fallbacks are collected as warnings, never raised as errors.
type Result struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
}

// Availability is the resolver's answer for one (itemName, brand) group.
type Availability struct {
	// Available is the total obtainable quantity: summed balances for
	// measurement groups, the eligible unit count for count groups.
	Available types.Quantity `json:"available"`

	Sufficient bool `json:"isSufficient"`

	// Measurement reports the group classification the resolver derived.
	Measurement bool `json:"measurement"`

	// RecommendedSourceIDs lists candidate source units. For count
	// groups this is the first quantityNeeded eligible units in ledger
	// order; for measurement groups, all eligible units.
	RecommendedSourceIDs []id.ID `json:"recommendedSourceIds"`
}

// MetadataProvider resolves the authoritative bulk-type classification
// for an item model. A miss (found == false) makes the engine fall back
// to the ledger-shape heuristic.
type MetadataProvider interface {
	Classify(ctx context.Context, itemName, brand string) (bulkType catalog.BulkType, found bool, err error)
}
