// Package catalog provides the item-model catalog: per-model metadata
// that authoritatively classifies allocation behavior.
package catalog

import (
	"context"
	"time"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

// BulkType classifies how a model's stock is consumed.
type BulkType string

const (
	// BulkMeasurement items carry a continuous balance cut to length
	// (cable drums measured in meters).
	BulkMeasurement BulkType = "measurement"
	// BulkCount items are discrete, indivisible pieces.
	BulkCount BulkType = "count"
)

// TrackingMethod describes how physical units are identified.
type TrackingMethod string

const (
	TrackingBulk       TrackingMethod = "bulk"
	TrackingIndividual TrackingMethod = "individual"
)

// ItemModel is one catalog entry (an asset/material model).
type ItemModel struct {
	ID       id.ID  `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category,omitempty"`

	BulkType       BulkType       `json:"bulkType"`
	TrackingMethod TrackingMethod `json:"trackingMethod"`

	// Unit is the measure label shown to users ("Meter", "Pcs").
	Unit string `json:"unit,omitempty"`

	// MinStock is the low-stock report threshold.
	MinStock types.Quantity `json:"minStock"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewItemModel creates a catalog entry with defaults.
func NewItemModel(name, brand string, bulkType BulkType) ItemModel {
	now := time.Now().UTC()
	tracking := TrackingIndividual
	if bulkType == BulkMeasurement {
		tracking = TrackingBulk
	}
	return ItemModel{
		ID:             id.New(),
		Name:           name,
		Brand:          brand,
		BulkType:       bulkType,
		TrackingMethod: tracking,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate checks model invariants.
func (m *ItemModel) Validate(ctx context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("model name is required").
			WithDetail("field", "name")
	}
	switch m.BulkType {
	case BulkMeasurement, BulkCount:
	default:
		return apperror.NewValidation("unknown bulk type").
			WithDetail("field", "bulkType").
			WithDetail("value", string(m.BulkType))
	}
	switch m.TrackingMethod {
	case TrackingBulk, TrackingIndividual, "":
	default:
		return apperror.NewValidation("unknown tracking method").
			WithDetail("field", "trackingMethod").
			WithDetail("value", string(m.TrackingMethod))
	}
	if m.MinStock.IsNegative() {
		return apperror.NewValidation("minimum stock must not be negative").
			WithDetail("field", "minStock")
	}
	return nil
}

// Snapshot is one whole-collection read of the catalog with its
// persistence revision token.
type Snapshot struct {
	Models []ItemModel
	Rev    uint64
}

// Repository persists the catalog as a single collection.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
