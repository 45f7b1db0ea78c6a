package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fieldstock/internal/core/apperror"
	appctx "fieldstock/internal/core/context"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/movement"
	"fieldstock/pkg/logger"
)

// Notifier receives out-of-band alerts raised by ledger transitions.
// Implementations live outside the core (log sink, messaging, ...).
type Notifier interface {
	AssetDamaged(ctx context.Context, unit InventoryUnit)
}

// Service owns the inventory ledger. All mutation paths go through it
// (or through the allocation engine), never through ad-hoc field writes,
// so ledger invariants hold at every persistence point.
type Service struct {
	units     Repository
	movements *movement.Log
	notifier  Notifier

	mu sync.Mutex
}

// NewService creates the inventory service. notifier may be nil.
func NewService(units Repository, movements *movement.Log, notifier Notifier) *Service {
	return &Service{
		units:     units,
		movements: movements,
		notifier:  notifier,
	}
}

// RegisterInput describes one registration batch: Count units of the
// same model, each with the same initial balance for measurement models.
type RegisterInput struct {
	ItemName       string
	Brand          string
	Count          int
	InitialBalance *types.Quantity // nil for count models
	Unit           string
	Location       string
	Reference      string
	Actor          string
}

// Register creates units in storage with full balance and records one
// IN_PURCHASE movement for the batch.
func (s *Service) Register(ctx context.Context, input RegisterInput) ([]InventoryUnit, error) {
	if input.ItemName == "" {
		return nil, apperror.NewValidation("item name is required").WithDetail("field", "itemName")
	}
	if input.Count <= 0 {
		return nil, apperror.NewValidation("count must be positive").WithDetail("field", "count")
	}
	if input.InitialBalance != nil && !input.InitialBalance.IsPositive() {
		return nil, apperror.NewValidation("initial balance must be positive").WithDetail("field", "initialBalance")
	}

	actor := s.actor(ctx, input.Actor)

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.units.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}

	created := make([]InventoryUnit, 0, input.Count)
	var added types.Quantity
	for i := 0; i < input.Count; i++ {
		u := NewUnit(input.ItemName, input.Brand, input.InitialBalance)
		u.Unit = input.Unit
		u.Location = input.Location
		u.AppendActivity(actor, "Registration", "Registered into storage")
		created = append(created, u)
		added += u.EffectiveBalance()
	}
	snap.Units = append(snap.Units, created...)

	if err := s.units.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save units: %w", err)
	}

	if _, err := s.movements.Record(ctx, movement.Entry{
		ItemName:    input.ItemName,
		Brand:       input.Brand,
		Type:        movement.TypeInPurchase,
		Quantity:    added,
		ReferenceID: input.Reference,
		Actor:       actor,
	}); err != nil {
		return nil, fmt.Errorf("record movement: %w", err)
	}

	logger.Info(ctx, "units registered",
		"item", input.ItemName,
		"brand", input.Brand,
		"count", input.Count,
	)
	return created, nil
}

// GetByID retrieves a unit by ID.
func (s *Service) GetByID(ctx context.Context, unitID id.ID) (InventoryUnit, error) {
	snap, err := s.units.Load(ctx)
	if err != nil {
		return InventoryUnit{}, fmt.Errorf("load units: %w", err)
	}
	for i := range snap.Units {
		if snap.Units[i].ID == unitID {
			return snap.Units[i], nil
		}
	}
	return InventoryUnit{}, apperror.NewNotFound("inventory unit", unitID)
}

// Filter narrows unit listings. Zero values mean "any".
type Filter struct {
	ItemName string
	Brand    string
	Status   Status
	Limit    int
	Offset   int
}

// List returns units in ledger order.
func (s *Service) List(ctx context.Context, filter Filter) ([]InventoryUnit, error) {
	snap, err := s.units.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}

	out := make([]InventoryUnit, 0)
	for _, u := range snap.Units {
		if filter.ItemName != "" && u.ItemName != filter.ItemName {
			continue
		}
		if filter.Brand != "" && u.Brand != filter.Brand {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		out = append(out, u)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []InventoryUnit{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// UpdateUnit merges a patch into one unit. Status transitions derive
// stock movements:
//
//	IN_STORAGE -> IN_USE   emits OUT_INSTALLATION
//	IN_STORAGE -> DAMAGED  emits OUT_BROKEN
//	any        -> IN_STORAGE emits IN_RETURN
//
// Balance-only changes never derive movements; the consumption engine
// logs those itself. A transition to DAMAGED also fires the notifier.
func (s *Service) UpdateUnit(ctx context.Context, unitID id.ID, patch Patch) (InventoryUnit, error) {
	if patch.IsEmpty() {
		return InventoryUnit{}, apperror.NewValidation("empty patch")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return InventoryUnit{}, apperror.NewValidation("unknown status").
			WithDetail("value", string(*patch.Status))
	}

	actor := s.actor(ctx, "")

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.units.Load(ctx)
	if err != nil {
		return InventoryUnit{}, fmt.Errorf("load units: %w", err)
	}

	var updated *InventoryUnit
	var oldStatus Status
	for i := range snap.Units {
		if snap.Units[i].ID == unitID {
			updated = &snap.Units[i]
			break
		}
	}
	if updated == nil {
		return InventoryUnit{}, apperror.NewNotFound("inventory unit", unitID)
	}

	oldStatus = updated.Status
	patch.Apply(updated)
	if patch.Status != nil && *patch.Status != oldStatus {
		updated.AppendActivity(actor, "Status Change",
			fmt.Sprintf("%s -> %s", oldStatus, updated.Status))
	} else {
		updated.AppendActivity(actor, "Update", "Fields updated")
	}
	if err := updated.Validate(ctx); err != nil {
		return InventoryUnit{}, err
	}

	if err := s.units.Save(ctx, snap); err != nil {
		return InventoryUnit{}, fmt.Errorf("save units: %w", err)
	}

	result := *updated

	if patch.Status != nil && *patch.Status != oldStatus {
		if err := s.recordTransition(ctx, result, oldStatus, actor); err != nil {
			return InventoryUnit{}, err
		}
		if result.Status == StatusDamaged && s.notifier != nil {
			s.notifier.AssetDamaged(ctx, result)
		}
	}

	return result, nil
}

// recordTransition derives a movement from a status boundary crossing.
func (s *Service) recordTransition(ctx context.Context, u InventoryUnit, oldStatus Status, actor string) error {
	var movementType movement.Type
	switch {
	case oldStatus != StatusInStorage && u.Status == StatusInStorage:
		movementType = movement.TypeInReturn
	case oldStatus == StatusInStorage && u.Status == StatusInUse:
		movementType = movement.TypeOutInstallation
	case oldStatus == StatusInStorage && u.Status == StatusDamaged:
		movementType = movement.TypeOutBroken
	default:
		return nil
	}

	qty := u.EffectiveBalance()
	if _, err := s.movements.Record(ctx, movement.Entry{
		ItemName: u.ItemName,
		Brand:    u.Brand,
		Type:     movementType,
		Quantity: qty,
		Actor:    actor,
		Notes:    fmt.Sprintf("Status change %s -> %s", oldStatus, u.Status),
	}); err != nil {
		return fmt.Errorf("record movement: %w", err)
	}
	return nil
}

// UpdateUnitBatch applies one patch across a set of unit IDs in a single
// persistence write, appending one activity entry per affected unit.
// Unknown IDs are skipped. All-or-nothing: a failed save commits none.
func (s *Service) UpdateUnitBatch(ctx context.Context, ids []id.ID, patch Patch, logAction string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return 0, apperror.NewValidation("unknown status").
			WithDetail("value", string(*patch.Status))
	}
	if logAction == "" {
		logAction = "Batch Update"
	}

	actor := s.actor(ctx, "")
	wanted := make(map[id.ID]struct{}, len(ids))
	for _, unitID := range ids {
		wanted[unitID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.units.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load units: %w", err)
	}

	affected := 0
	for i := range snap.Units {
		u := &snap.Units[i]
		if _, ok := wanted[u.ID]; !ok {
			continue
		}
		patch.Apply(u)
		u.AppendActivity(actor, logAction,
			fmt.Sprintf("Status: %s", u.Status))
		affected++
	}

	if affected == 0 {
		return 0, nil
	}
	if err := s.units.Save(ctx, snap); err != nil {
		return 0, fmt.Errorf("save units: %w", err)
	}

	logger.Info(ctx, "batch update applied", "requested", len(ids), "affected", affected, "action", logAction)
	return affected, nil
}

// ReceiveReturns moves the given units back into storage and records one
// IN_RETURN movement per (itemName, brand) group covering the returned
// quantity.
func (s *Service) ReceiveReturns(ctx context.Context, ids []id.ID, location string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	actor := s.actor(ctx, "")
	wanted := make(map[id.ID]struct{}, len(ids))
	for _, unitID := range ids {
		wanted[unitID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.units.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load units: %w", err)
	}

	type groupTotal struct {
		itemName string
		brand    string
		qty      types.Quantity
	}
	totals := make(map[string]*groupTotal)
	order := make([]string, 0)

	affected := 0
	for i := range snap.Units {
		u := &snap.Units[i]
		if _, ok := wanted[u.ID]; !ok {
			continue
		}
		if u.Status == StatusInStorage {
			continue
		}
		u.Status = StatusInStorage
		u.CurrentUser = ""
		if location != "" {
			u.Location = location
		}
		u.UpdatedAt = time.Now().UTC()
		u.AppendActivity(actor, "Return Intake", "Returned into storage")

		key := u.ItemName + "\x00" + u.Brand
		if _, ok := totals[key]; !ok {
			totals[key] = &groupTotal{itemName: u.ItemName, brand: u.Brand}
			order = append(order, key)
		}
		totals[key].qty += u.EffectiveBalance()
		affected++
	}

	if affected == 0 {
		return 0, nil
	}
	if err := s.units.Save(ctx, snap); err != nil {
		return 0, fmt.Errorf("save units: %w", err)
	}

	entries := make([]movement.Entry, 0, len(order))
	for _, key := range order {
		g := totals[key]
		entries = append(entries, movement.Entry{
			ItemName: g.itemName,
			Brand:    g.brand,
			Type:     movement.TypeInReturn,
			Quantity: g.qty,
			Actor:    actor,
			Notes:    "Return intake",
		})
	}
	if _, err := s.movements.RecordBatch(ctx, entries); err != nil {
		return 0, fmt.Errorf("record movements: %w", err)
	}

	logger.Info(ctx, "returns received", "requested", len(ids), "affected", affected)
	return affected, nil
}

// Delete removes a unit from the ledger. Explicit deletion only; fully
// consumed measurement units stay on the ledger as CONSUMED.
func (s *Service) Delete(ctx context.Context, unitID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.units.Load(ctx)
	if err != nil {
		return fmt.Errorf("load units: %w", err)
	}
	for i := range snap.Units {
		if snap.Units[i].ID == unitID {
			snap.Units = append(snap.Units[:i], snap.Units[i+1:]...)
			if err := s.units.Save(ctx, snap); err != nil {
				return fmt.Errorf("save units: %w", err)
			}
			logger.Info(ctx, "unit deleted", "id", unitID)
			return nil
		}
	}
	return apperror.NewNotFound("inventory unit", unitID)
}

func (s *Service) actor(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if name := appctx.GetActorName(ctx); name != "" {
		return name
	}
	return "system"
}
