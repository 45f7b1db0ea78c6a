// Package movement provides the stock movement log: an append-only,
// per-(itemName, brand) ordered journal of quantity changes used to
// recompute running balances and provide audit history.
package movement

import (
	"strings"
	"time"

	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

// Type classifies a movement. The IN_/OUT_ prefix encodes direction;
// Quantity is always a non-negative magnitude.
type Type string

const (
	TypeInPurchase      Type = "IN_PURCHASE"
	TypeInReturn        Type = "IN_RETURN"
	TypeInAdjustment    Type = "IN_ADJUSTMENT"
	TypeOutInstallation Type = "OUT_INSTALLATION"
	TypeOutBroken       Type = "OUT_BROKEN"
	TypeOutAdjustment   Type = "OUT_ADJUSTMENT"
)

// IsInbound reports whether the type adds to the group balance.
func (t Type) IsInbound() bool {
	return strings.HasPrefix(string(t), "IN_")
}

// StockMovement is one ledger journal entry.
type StockMovement struct {
	ID       id.ID     `json:"id"`
	ItemName string    `json:"itemName"`
	Brand    string    `json:"brand"`
	Date     time.Time `json:"date"`
	Type     Type      `json:"type"`

	// Quantity is the movement magnitude. Sign is encoded by Type.
	Quantity types.Quantity `json:"quantity"`

	// BalanceAfter is the running total for the (itemName, brand) group,
	// recomputed whenever an entry for the same group is inserted.
	BalanceAfter types.Quantity `json:"balanceAfter"`

	ReferenceID string `json:"referenceId,omitempty"`
	Actor       string `json:"actor,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// GroupKey identifies the movement's (itemName, brand) journal group.
func (m *StockMovement) GroupKey() string {
	return m.ItemName + "\x00" + m.Brand
}

// Entry is the caller-supplied part of a movement. ID and BalanceAfter
// are assigned by the log on record.
type Entry struct {
	ItemName    string
	Brand       string
	Date        time.Time
	Type        Type
	Quantity    types.Quantity
	ReferenceID string
	Actor       string
	Notes       string
}

// Snapshot is one whole-collection read of the journal with its
// persistence revision token.
type Snapshot struct {
	Movements []StockMovement
	Rev       uint64
}
