package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/inventory"
)

// RegisterUnitsRequest creates a batch of units for one item model.
type RegisterUnitsRequest struct {
	ItemName       string  `json:"itemName" binding:"required"`
	Brand          string  `json:"brand"`
	Count          int     `json:"count" binding:"required,min=1"`
	InitialBalance *string `json:"initialBalance,omitempty"`
	Unit           string  `json:"unit,omitempty"`
	Location       string  `json:"location,omitempty"`
	Reference      string  `json:"reference,omitempty"`
}

// ToInput converts the request to a service input, parsing the balance
// as a strict decimal string.
func (r RegisterUnitsRequest) ToInput() (inventory.RegisterInput, error) {
	input := inventory.RegisterInput{
		ItemName:  r.ItemName,
		Brand:     r.Brand,
		Count:     r.Count,
		Unit:      r.Unit,
		Location:  r.Location,
		Reference: r.Reference,
	}
	if r.InitialBalance != nil {
		d, err := decimal.NewFromString(*r.InitialBalance)
		if err != nil {
			return inventory.RegisterInput{}, apperror.NewValidation("invalid initial balance").
				WithDetail("field", "initialBalance").
				WithDetail("value", *r.InitialBalance)
		}
		q := types.NewQuantityFromDecimal(d)
		input.InitialBalance = &q
	}
	return input, nil
}

// UnitPatchRequest is a partial unit update.
type UnitPatchRequest struct {
	Status         *string `json:"status,omitempty"`
	CurrentBalance *string `json:"currentBalance,omitempty"`
	CurrentUser    *string `json:"currentUser,omitempty"`
	Location       *string `json:"location,omitempty"`
	SerialNumber   *string `json:"serialNumber,omitempty"`
}

// ToPatch converts the request to a domain patch.
func (r UnitPatchRequest) ToPatch() (inventory.Patch, error) {
	patch := inventory.Patch{
		CurrentUser:  r.CurrentUser,
		Location:     r.Location,
		SerialNumber: r.SerialNumber,
	}
	if r.Status != nil {
		status := inventory.Status(*r.Status)
		patch.Status = &status
	}
	if r.CurrentBalance != nil {
		d, err := decimal.NewFromString(*r.CurrentBalance)
		if err != nil {
			return inventory.Patch{}, apperror.NewValidation("invalid balance").
				WithDetail("field", "currentBalance").
				WithDetail("value", *r.CurrentBalance)
		}
		q := types.NewQuantityFromDecimal(d)
		patch.CurrentBalance = &q
	}
	return patch, nil
}

// BatchUpdateRequest applies one patch across a set of unit IDs.
type BatchUpdateRequest struct {
	IDs       []string         `json:"ids" binding:"required,min=1"`
	Patch     UnitPatchRequest `json:"patch"`
	LogAction string           `json:"logAction,omitempty"`
}

// ReceiveReturnsRequest moves units back into storage.
type ReceiveReturnsRequest struct {
	IDs      []string `json:"ids" binding:"required,min=1"`
	Location string   `json:"location,omitempty"`
}

// ActivityEntryResponse is one audit record on a unit.
type ActivityEntryResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}

// UnitResponse represents an inventory unit in API responses.
type UnitResponse struct {
	ID             string                  `json:"id"`
	ItemName       string                  `json:"itemName"`
	Brand          string                  `json:"brand"`
	SerialNumber   string                  `json:"serialNumber,omitempty"`
	Status         string                  `json:"status"`
	InitialBalance *float64                `json:"initialBalance,omitempty"`
	CurrentBalance *float64                `json:"currentBalance,omitempty"`
	Unit           string                  `json:"unit,omitempty"`
	CurrentUser    string                  `json:"currentUser,omitempty"`
	Location       string                  `json:"location,omitempty"`
	RegisteredAt   time.Time               `json:"registeredAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
	ActivityLog    []ActivityEntryResponse `json:"activityLog,omitempty"`
}

// FromUnit converts a ledger unit to a response DTO.
func FromUnit(u inventory.InventoryUnit) UnitResponse {
	resp := UnitResponse{
		ID:           u.ID.String(),
		ItemName:     u.ItemName,
		Brand:        u.Brand,
		SerialNumber: u.SerialNumber,
		Status:       string(u.Status),
		Unit:         u.Unit,
		CurrentUser:  u.CurrentUser,
		Location:     u.Location,
		RegisteredAt: u.RegisteredAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.InitialBalance != nil {
		v := u.InitialBalance.Float64()
		resp.InitialBalance = &v
	}
	if u.CurrentBalance != nil {
		v := u.CurrentBalance.Float64()
		resp.CurrentBalance = &v
	}
	for _, e := range u.ActivityLog {
		resp.ActivityLog = append(resp.ActivityLog, ActivityEntryResponse{
			ID:        e.ID.String(),
			Timestamp: e.Timestamp,
			User:      e.User,
			Action:    e.Action,
			Details:   e.Details,
		})
	}
	return resp
}

// UnitListResponse is a list of units.
type UnitListResponse struct {
	Items []UnitResponse `json:"items"`
}
