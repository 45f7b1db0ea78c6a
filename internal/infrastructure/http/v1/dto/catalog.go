package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalog"
)

// ItemModelRequest creates or updates a catalog entry.
type ItemModelRequest struct {
	Name           string `json:"name" binding:"required"`
	Brand          string `json:"brand"`
	Category       string `json:"category,omitempty"`
	BulkType       string `json:"bulkType" binding:"required"`
	TrackingMethod string `json:"trackingMethod,omitempty"`
	Unit           string `json:"unit,omitempty"`
	MinStock       string `json:"minStock,omitempty"`
}

// ToModel converts the request to a catalog model.
func (r ItemModelRequest) ToModel() (catalog.ItemModel, error) {
	model := catalog.NewItemModel(r.Name, r.Brand, catalog.BulkType(r.BulkType))
	model.Category = r.Category
	model.Unit = r.Unit
	if r.TrackingMethod != "" {
		model.TrackingMethod = catalog.TrackingMethod(r.TrackingMethod)
	}
	if r.MinStock != "" {
		d, err := decimal.NewFromString(r.MinStock)
		if err != nil {
			return catalog.ItemModel{}, apperror.NewValidation("invalid minimum stock").
				WithDetail("field", "minStock").
				WithDetail("value", r.MinStock)
		}
		model.MinStock = types.NewQuantityFromDecimal(d)
	}
	return model, nil
}

// ItemModelResponse represents a catalog entry in API responses.
type ItemModelResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"`
	Category       string    `json:"category,omitempty"`
	BulkType       string    `json:"bulkType"`
	TrackingMethod string    `json:"trackingMethod"`
	Unit           string    `json:"unit,omitempty"`
	MinStock       float64   `json:"minStock"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromItemModel converts a catalog entry to a response DTO.
func FromItemModel(m catalog.ItemModel) ItemModelResponse {
	return ItemModelResponse{
		ID:             m.ID.String(),
		Name:           m.Name,
		Brand:          m.Brand,
		Category:       m.Category,
		BulkType:       string(m.BulkType),
		TrackingMethod: string(m.TrackingMethod),
		Unit:           m.Unit,
		MinStock:       m.MinStock.Float64(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ItemModelListResponse is a list of catalog entries.
type ItemModelListResponse struct {
	Items []ItemModelResponse `json:"items"`
}

// LowStockEntry is one low-stock report line.
type LowStockEntry struct {
	Model     ItemModelResponse `json:"model"`
	Available float64           `json:"available"`
	MinStock  float64           `json:"minStock"`
}

// LowStockResponse is the low-stock report.
type LowStockResponse struct {
	Items []LowStockEntry `json:"items"`
}
