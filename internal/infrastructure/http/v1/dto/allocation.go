package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/allocation"
)

// MaterialLineRequest is one requested material line.
type MaterialLineRequest struct {
	MaterialUnitID *string `json:"materialUnitId,omitempty"`
	ItemName       string  `json:"itemName" binding:"required"`
	Brand          string  `json:"brand"`
	Quantity       string  `json:"quantity" binding:"required"`
	Unit           string  `json:"unit,omitempty"`
}

// ConsumeRequest is the consumption engine input.
type ConsumeRequest struct {
	Materials []MaterialLineRequest `json:"materials" binding:"required,min=1"`
	Context   ConsumeContextRequest `json:"context"`
}

// ConsumeContextRequest stamps assignments and movement references.
type ConsumeContextRequest struct {
	CustomerID string `json:"customerId,omitempty"`
	Location   string `json:"location,omitempty"`
	DocNumber  string `json:"docNumber,omitempty"`
	Actor      string `json:"actor,omitempty"`
}

// ToRequests converts the API shape to engine requests, validating IDs
// and quantities at the boundary.
func (r ConsumeRequest) ToRequests() ([]allocation.Request, allocation.ConsumeContext, error) {
	materials := make([]allocation.Request, 0, len(r.Materials))
	for i, line := range r.Materials {
		d, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			return nil, allocation.ConsumeContext{}, apperror.NewValidation(
				fmt.Sprintf("material %d: invalid quantity", i)).
				WithDetail("value", line.Quantity)
		}
		req := allocation.Request{
			ItemName: line.ItemName,
			Brand:    line.Brand,
			Quantity: types.NewQuantityFromDecimal(d),
			Unit:     line.Unit,
		}
		if line.MaterialUnitID != nil && *line.MaterialUnitID != "" {
			unitID, err := id.Parse(*line.MaterialUnitID)
			if err != nil {
				return nil, allocation.ConsumeContext{}, apperror.NewValidation(
					fmt.Sprintf("material %d: invalid materialUnitId", i)).
					WithDetail("value", *line.MaterialUnitID)
			}
			req.MaterialUnitID = &unitID
		}
		materials = append(materials, req)
	}

	cctx := allocation.ConsumeContext{
		CustomerID: r.Context.CustomerID,
		Location:   r.Context.Location,
		DocNumber:  r.Context.DocNumber,
		Actor:      r.Context.Actor,
	}
	return materials, cctx, nil
}

// ConsumeResponse reports the engine outcome.
type ConsumeResponse struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
}

// AvailabilityResponse is the resolver's answer.
type AvailabilityResponse struct {
	Available            float64  `json:"available"`
	IsSufficient         bool     `json:"isSufficient"`
	Measurement          bool     `json:"measurement"`
	RecommendedSourceIDs []string `json:"recommendedSourceIds"`
}

// FromAvailability converts the resolver result.
func FromAvailability(a allocation.Availability) AvailabilityResponse {
	ids := make([]string, 0, len(a.RecommendedSourceIDs))
	for _, unitID := range a.RecommendedSourceIDs {
		ids = append(ids, unitID.String())
	}
	return AvailabilityResponse{
		Available:            a.Available.Float64(),
		IsSufficient:         a.Sufficient,
		Measurement:          a.Measurement,
		RecommendedSourceIDs: ids,
	}
}
