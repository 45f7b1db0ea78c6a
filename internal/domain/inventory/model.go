// Package inventory provides the inventory ledger: the set of physical
// asset and material records that is the single source of truth for
// on-hand stock.
package inventory

import (
	"context"
	"time"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

// Status is the lifecycle state of an inventory unit.
// Only StatusInStorage units are eligible as allocation sources.
type Status string

const (
	StatusInStorage      Status = "IN_STORAGE"
	StatusInUse          Status = "IN_USE"
	StatusInCustody      Status = "IN_CUSTODY"
	StatusDamaged        Status = "DAMAGED"
	StatusUnderRepair    Status = "UNDER_REPAIR"
	StatusOutForRepair   Status = "OUT_FOR_REPAIR"
	StatusDecommissioned Status = "DECOMMISSIONED"
	StatusConsumed       Status = "CONSUMED"
	StatusAwaitingReturn Status = "AWAITING_RETURN"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusInStorage, StatusInUse, StatusInCustody, StatusDamaged,
		StatusUnderRepair, StatusOutForRepair, StatusDecommissioned,
		StatusConsumed, StatusAwaitingReturn:
		return true
	}
	return false
}

// ActivityEntry is one append-only audit record on a unit.
type ActivityEntry struct {
	ID        id.ID     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}

// InventoryUnit is a physical or logical stock record.
//
// A unit is either a measurement unit (InitialBalance set, e.g. a
// 1000-meter cable drum that can be partially cut) or a count unit
// (InitialBalance nil, one discrete item of quantity 1). The
// classification must not change after creation.
type InventoryUnit struct {
	ID       id.ID  `json:"id"`
	ItemName string `json:"itemName"`
	Brand    string `json:"brand"`

	// SerialNumber identifies individually-tracked hardware (optional).
	SerialNumber string `json:"serialNumber,omitempty"`

	Status Status `json:"status"`

	// InitialBalance is set only for measurement units.
	InitialBalance *types.Quantity `json:"initialBalance,omitempty"`

	// CurrentBalance is the remaining quantity of a measurement unit.
	// Invariant: 0 <= CurrentBalance <= InitialBalance.
	CurrentBalance *types.Quantity `json:"currentBalance,omitempty"`

	// Unit is the measure label ("Meter", "Pcs", ...).
	Unit string `json:"unit,omitempty"`

	CurrentUser string `json:"currentUser,omitempty"`
	Location    string `json:"location,omitempty"`

	RegisteredAt time.Time `json:"registeredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	ActivityLog []ActivityEntry `json:"activityLog,omitempty"`
}

// NewUnit creates a unit in storage with full balance.
func NewUnit(itemName, brand string, initialBalance *types.Quantity) InventoryUnit {
	now := time.Now().UTC()
	u := InventoryUnit{
		ID:           id.New(),
		ItemName:     itemName,
		Brand:        brand,
		Status:       StatusInStorage,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if initialBalance != nil {
		init := *initialBalance
		cur := init
		u.InitialBalance = &init
		u.CurrentBalance = &cur
	}
	return u
}

// IsMeasurement reports whether the unit carries a continuous balance.
func (u *InventoryUnit) IsMeasurement() bool {
	return u.InitialBalance != nil
}

// EffectiveBalance returns the remaining quantity of a measurement unit,
// falling back to InitialBalance when CurrentBalance was never set.
// Count units report 1 whole unit.
func (u *InventoryUnit) EffectiveBalance() types.Quantity {
	if !u.IsMeasurement() {
		return types.NewQuantityFromInt(1)
	}
	if u.CurrentBalance != nil {
		return *u.CurrentBalance
	}
	return *u.InitialBalance
}

// Matches reports whether the unit belongs to the (itemName, brand) group.
// Matching is exact and case-sensitive; callers normalize before lookup.
func (u *InventoryUnit) Matches(itemName, brand string) bool {
	return u.ItemName == itemName && u.Brand == brand
}

// Allocatable reports whether the unit can serve as an allocation source.
func (u *InventoryUnit) Allocatable() bool {
	return u.Status == StatusInStorage
}

// SetBalance replaces CurrentBalance, clamping into [0, InitialBalance].
// No-op for count units.
func (u *InventoryUnit) SetBalance(q types.Quantity) {
	if !u.IsMeasurement() {
		return
	}
	if q.IsNegative() {
		q = 0
	}
	if q > *u.InitialBalance {
		q = *u.InitialBalance
	}
	u.CurrentBalance = &q
}

// AppendActivity adds one audit entry to the unit's activity log.
func (u *InventoryUnit) AppendActivity(user, action, details string) {
	if user == "" {
		user = "system"
	}
	u.ActivityLog = append(u.ActivityLog, ActivityEntry{
		ID:        id.New(),
		Timestamp: time.Now().UTC(),
		User:      user,
		Action:    action,
		Details:   details,
	})
}

// Validate checks unit invariants.
func (u *InventoryUnit) Validate(ctx context.Context) error {
	if u.ItemName == "" {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "itemName")
	}
	if !u.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(u.Status))
	}
	if u.InitialBalance != nil {
		if u.InitialBalance.IsNegative() {
			return apperror.NewValidation("initial balance must not be negative").
				WithDetail("field", "initialBalance")
		}
		if u.CurrentBalance != nil {
			if u.CurrentBalance.IsNegative() || *u.CurrentBalance > *u.InitialBalance {
				return apperror.NewValidation("current balance out of range").
					WithDetail("field", "currentBalance").
					WithDetail("initialBalance", u.InitialBalance.String()).
					WithDetail("currentBalance", u.CurrentBalance.String())
			}
		}
	} else if u.CurrentBalance != nil {
		return apperror.NewValidation("count unit must not carry a balance").
			WithDetail("field", "currentBalance")
	}
	return nil
}

// Patch is a partial update applied to a unit. Nil fields are untouched.
type Patch struct {
	Status         *Status         `json:"status,omitempty"`
	CurrentBalance *types.Quantity `json:"currentBalance,omitempty"`
	CurrentUser    *string         `json:"currentUser,omitempty"`
	Location       *string         `json:"location,omitempty"`
	SerialNumber   *string         `json:"serialNumber,omitempty"`
}

// Apply merges the patch into the unit and bumps UpdatedAt.
func (p Patch) Apply(u *InventoryUnit) {
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.CurrentBalance != nil {
		u.SetBalance(*p.CurrentBalance)
	}
	if p.CurrentUser != nil {
		u.CurrentUser = *p.CurrentUser
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.SerialNumber != nil {
		u.SerialNumber = *p.SerialNumber
	}
	u.UpdatedAt = time.Now().UTC()
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.CurrentBalance == nil && p.CurrentUser == nil &&
		p.Location == nil && p.SerialNumber == nil
}
