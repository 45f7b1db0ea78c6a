package dto

import (
	"time"

	"fieldstock/internal/domain/movement"
)

// MovementResponse represents a stock movement in API responses.
type MovementResponse struct {
	ID           string    `json:"id"`
	ItemName     string    `json:"itemName"`
	Brand        string    `json:"brand"`
	Date         time.Time `json:"date"`
	Type         string    `json:"type"`
	Quantity     float64   `json:"quantity"`
	BalanceAfter float64   `json:"balanceAfter"`
	ReferenceID  string    `json:"referenceId,omitempty"`
	Actor        string    `json:"actor,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

// FromMovement converts a journal entry to a response DTO.
func FromMovement(m movement.StockMovement) MovementResponse {
	return MovementResponse{
		ID:           m.ID.String(),
		ItemName:     m.ItemName,
		Brand:        m.Brand,
		Date:         m.Date,
		Type:         string(m.Type),
		Quantity:     m.Quantity.Float64(),
		BalanceAfter: m.BalanceAfter.Float64(),
		ReferenceID:  m.ReferenceID,
		Actor:        m.Actor,
		Notes:        m.Notes,
	}
}

// MovementListResponse is a list of movements.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
}

// BalanceResponse is the current running balance for one group.
type BalanceResponse struct {
	ItemName string  `json:"itemName"`
	Brand    string  `json:"brand"`
	Balance  float64 `json:"balance"`
}
