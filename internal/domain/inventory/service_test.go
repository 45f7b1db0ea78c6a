package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/domain/movement"
	"fieldstock/internal/infrastructure/storage/memory"
)

type captureNotifier struct {
	damaged []inventory.InventoryUnit
}

func (n *captureNotifier) AssetDamaged(ctx context.Context, unit inventory.InventoryUnit) {
	n.damaged = append(n.damaged, unit)
}

type fixture struct {
	service  *inventory.Service
	log      *movement.Log
	notifier *captureNotifier
}

func newFixture() *fixture {
	log := movement.NewLog(memory.NewMovementRepo())
	notifier := &captureNotifier{}
	return &fixture{
		service:  inventory.NewService(memory.NewUnitRepo(), log, notifier),
		log:      log,
		notifier: notifier,
	}
}

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func statusPtr(s inventory.Status) *inventory.Status { return &s }

func TestRegister(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	balance := qty(1000)
	created, err := f.service.Register(ctx, inventory.RegisterInput{
		ItemName:       "Fiber Drum",
		Brand:          "CommScope",
		Count:          2,
		InitialBalance: &balance,
		Unit:           "m",
		Location:       "Central Warehouse",
		Actor:          "tester",
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, u := range created {
		assert.Equal(t, inventory.StatusInStorage, u.Status)
		assert.True(t, u.IsMeasurement())
		assert.Equal(t, qty(1000), u.EffectiveBalance())
		assert.Len(t, u.ActivityLog, 1)
	}

	// One IN_PURCHASE movement covering the whole batch.
	history, err := f.log.History(ctx, "Fiber Drum", "CommScope", movement.Filter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, movement.TypeInPurchase, history[0].Type)
	assert.Equal(t, qty(2000), history[0].Quantity)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Register(ctx, inventory.RegisterInput{Brand: "X", Count: 1})
	assert.Error(t, err, "missing item name")

	_, err = f.service.Register(ctx, inventory.RegisterInput{ItemName: "X", Count: 0})
	assert.Error(t, err, "zero count")
}

func TestUpdateUnit_DerivedMovements(t *testing.T) {
	tests := []struct {
		name         string
		fromStatus   inventory.Status
		toStatus     inventory.Status
		wantMovement movement.Type
		wantNone     bool
	}{
		{"issue to field", inventory.StatusInStorage, inventory.StatusInUse, movement.TypeOutInstallation, false},
		{"broken in storage", inventory.StatusInStorage, inventory.StatusDamaged, movement.TypeOutBroken, false},
		{"returned to storage", inventory.StatusInUse, inventory.StatusInStorage, movement.TypeInReturn, false},
		{"lateral transfer", inventory.StatusInUse, inventory.StatusInCustody, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			created, err := f.service.Register(ctx, inventory.RegisterInput{
				ItemName: "Router", Brand: "TP-Link", Count: 1,
			})
			require.NoError(t, err)
			unit := created[0]

			if tt.fromStatus != inventory.StatusInStorage {
				_, err = f.service.UpdateUnit(ctx, unit.ID, inventory.Patch{Status: statusPtr(tt.fromStatus)})
				require.NoError(t, err)
			}

			before, err := f.log.History(ctx, "Router", "TP-Link", movement.Filter{})
			require.NoError(t, err)

			updated, err := f.service.UpdateUnit(ctx, unit.ID, inventory.Patch{Status: statusPtr(tt.toStatus)})
			require.NoError(t, err)
			assert.Equal(t, tt.toStatus, updated.Status)

			after, err := f.log.History(ctx, "Router", "TP-Link", movement.Filter{})
			require.NoError(t, err)

			if tt.wantNone {
				assert.Len(t, after, len(before), "no movement expected")
				return
			}
			require.Len(t, after, len(before)+1)
			assert.Equal(t, tt.wantMovement, after[len(after)-1].Type)
			assert.Equal(t, qty(1), after[len(after)-1].Quantity)
		})
	}
}

func TestUpdateUnit_DamagedFiresNotifier(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Register(ctx, inventory.RegisterInput{
		ItemName: "ONT", Brand: "Nokia", Count: 1,
	})
	require.NoError(t, err)

	_, err = f.service.UpdateUnit(ctx, created[0].ID, inventory.Patch{Status: statusPtr(inventory.StatusDamaged)})
	require.NoError(t, err)

	require.Len(t, f.notifier.damaged, 1)
	assert.Equal(t, created[0].ID, f.notifier.damaged[0].ID)
}

func TestUpdateUnit_EmptyPatch(t *testing.T) {
	f := newFixture()

	_, err := f.service.UpdateUnit(context.Background(), id.New(), inventory.Patch{})
	assert.Error(t, err)
}

func TestUpdateUnit_BalanceOnlyDerivesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	balance := qty(500)
	created, err := f.service.Register(ctx, inventory.RegisterInput{
		ItemName: "Fiber Drum", Brand: "CommScope", Count: 1, InitialBalance: &balance,
	})
	require.NoError(t, err)

	newBalance := qty(420)
	updated, err := f.service.UpdateUnit(ctx, created[0].ID, inventory.Patch{CurrentBalance: &newBalance})
	require.NoError(t, err)
	assert.Equal(t, qty(420), updated.EffectiveBalance())

	history, err := f.log.History(ctx, "Fiber Drum", "CommScope", movement.Filter{})
	require.NoError(t, err)
	assert.Len(t, history, 1, "registration movement only")
}

func TestUpdateUnitBatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Register(ctx, inventory.RegisterInput{
		ItemName: "Access Point", Brand: "TP-Link", Count: 3,
	})
	require.NoError(t, err)

	ids := []id.ID{created[0].ID, created[1].ID, id.New()} // one unknown
	affected, err := f.service.UpdateUnitBatch(ctx, ids,
		inventory.Patch{Status: statusPtr(inventory.StatusInCustody)}, "Custody Transfer")
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	for _, unitID := range []id.ID{created[0].ID, created[1].ID} {
		u, err := f.service.GetByID(ctx, unitID)
		require.NoError(t, err)
		assert.Equal(t, inventory.StatusInCustody, u.Status)
		require.Len(t, u.ActivityLog, 2)
		assert.Equal(t, "Custody Transfer", u.ActivityLog[1].Action)
	}

	// Third registered unit untouched.
	u, err := f.service.GetByID(ctx, created[2].ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusInStorage, u.Status)
}

func TestReceiveReturns(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Register(ctx, inventory.RegisterInput{
		ItemName: "Router", Brand: "TP-Link", Count: 2,
	})
	require.NoError(t, err)

	user := "tech-42"
	for _, u := range created {
		_, err = f.service.UpdateUnit(ctx, u.ID, inventory.Patch{
			Status:      statusPtr(inventory.StatusInUse),
			CurrentUser: &user,
		})
		require.NoError(t, err)
	}

	affected, err := f.service.ReceiveReturns(ctx, []id.ID{created[0].ID, created[1].ID}, "Central Warehouse")
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	for _, u := range created {
		got, err := f.service.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.StatusInStorage, got.Status)
		assert.Empty(t, got.CurrentUser)
		assert.Equal(t, "Central Warehouse", got.Location)
	}

	// One grouped IN_RETURN entry for the pair.
	returnType := movement.TypeInReturn
	history, err := f.log.History(ctx, "Router", "TP-Link", movement.Filter{Type: &returnType})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, qty(2), history[0].Quantity)
}

func TestReceiveReturns_AlreadyStoredSkipped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Register(ctx, inventory.RegisterInput{
		ItemName: "Router", Brand: "TP-Link", Count: 1,
	})
	require.NoError(t, err)

	affected, err := f.service.ReceiveReturns(ctx, []id.ID{created[0].ID}, "")
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Register(ctx, inventory.RegisterInput{
		ItemName: "ONT", Brand: "Nokia", Count: 1,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, created[0].ID))

	_, err = f.service.GetByID(ctx, created[0].ID)
	assert.Error(t, err)

	assert.Error(t, f.service.Delete(ctx, created[0].ID), "second delete is not found")
}
