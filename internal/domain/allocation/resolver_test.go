package allocation_test

import (
	"context"
	"testing"
	"time"

	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/allocation"
	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/infrastructure/storage/memory"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

// seedUnits loads the repo with a fixed ledger. Registration dates step
// one hour apart in slice order so FIFO order is deterministic.
func seedUnits(t *testing.T, units ...inventory.InventoryUnit) *memory.UnitRepo {
	t.Helper()
	repo := memory.NewUnitRepo()
	ctx := context.Background()

	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i := range units {
		units[i].RegisteredAt = base.Add(time.Duration(i) * time.Hour)
		units[i].UpdatedAt = units[i].RegisteredAt
	}
	snap.Units = append(snap.Units, units...)
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	return repo
}

func measuredUnit(itemName, brand string, balance float64) inventory.InventoryUnit {
	b := qty(balance)
	return inventory.NewUnit(itemName, brand, &b)
}

func countUnit(itemName, brand string) inventory.InventoryUnit {
	return inventory.NewUnit(itemName, brand, nil)
}

// staticMetadata is a canned catalog lookup.
type staticMetadata map[string]catalog.BulkType

func (m staticMetadata) Classify(ctx context.Context, itemName, brand string) (catalog.BulkType, bool, error) {
	bt, ok := m[itemName+"/"+brand]
	return bt, ok, nil
}

func TestCheckAvailability_Measurement(t *testing.T) {
	repo := seedUnits(t,
		measuredUnit("Fiber Drum", "CommScope", 300),
		measuredUnit("Fiber Drum", "CommScope", 150),
	)
	resolver := allocation.NewResolver(repo)

	avail, err := resolver.CheckAvailability(context.Background(), "Fiber Drum", "CommScope", qty(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !avail.Measurement {
		t.Error("expected measurement classification")
	}
	if avail.Available != qty(450) {
		t.Errorf("available: want 450, got %s", avail.Available)
	}
	if !avail.Sufficient {
		t.Error("450 should cover 400")
	}
	if len(avail.RecommendedSourceIDs) != 2 {
		t.Errorf("expected both drums recommended, got %d", len(avail.RecommendedSourceIDs))
	}
}

func TestCheckAvailability_MeasurementInsufficient(t *testing.T) {
	repo := seedUnits(t, measuredUnit("Fiber Drum", "CommScope", 100))
	resolver := allocation.NewResolver(repo)

	avail, err := resolver.CheckAvailability(context.Background(), "Fiber Drum", "CommScope", qty(250))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.Sufficient {
		t.Error("100 must not cover 250")
	}
}

func TestCheckAvailability_Count(t *testing.T) {
	repo := seedUnits(t,
		countUnit("Router", "TP-Link"),
		countUnit("Router", "TP-Link"),
		countUnit("Router", "TP-Link"),
	)
	resolver := allocation.NewResolver(repo)

	avail, err := resolver.CheckAvailability(context.Background(), "Router", "TP-Link", qty(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.Measurement {
		t.Error("count group misclassified as measurement")
	}
	if avail.Available != qty(3) {
		t.Errorf("available: want 3, got %s", avail.Available)
	}
	if !avail.Sufficient {
		t.Error("3 units should cover 2")
	}
	if len(avail.RecommendedSourceIDs) != 2 {
		t.Errorf("expected 2 recommended sources, got %d", len(avail.RecommendedSourceIDs))
	}
}

func TestCheckAvailability_NonPositiveNeed(t *testing.T) {
	repo := seedUnits(t, countUnit("Router", "TP-Link"))
	resolver := allocation.NewResolver(repo)

	for _, need := range []float64{0, -5} {
		avail, err := resolver.CheckAvailability(context.Background(), "Router", "TP-Link", qty(need))
		if err != nil {
			t.Fatalf("need %v: unexpected error: %v", need, err)
		}
		if avail.Available != qty(1) {
			t.Errorf("need %v: available: want 1, got %s", need, avail.Available)
		}
		if !avail.Sufficient {
			t.Errorf("need %v: asking for nothing must be sufficient", need)
		}
		if len(avail.RecommendedSourceIDs) != 0 {
			t.Errorf("need %v: expected no recommendations, got %v", need, avail.RecommendedSourceIDs)
		}
	}
}

func TestCheckAvailability_IgnoresNonStorageUnits(t *testing.T) {
	inUse := countUnit("Router", "TP-Link")
	inUse.Status = inventory.StatusInUse
	repo := seedUnits(t, inUse, countUnit("Router", "TP-Link"))
	resolver := allocation.NewResolver(repo)

	avail, err := resolver.CheckAvailability(context.Background(), "Router", "TP-Link", qty(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.Available != qty(1) {
		t.Errorf("available: want 1, got %s", avail.Available)
	}
}

func TestCheckAvailability_NoEligibleUnits(t *testing.T) {
	repo := seedUnits(t)
	resolver := allocation.NewResolver(repo)

	avail, err := resolver.CheckAvailability(context.Background(), "Unknown", "None", qty(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !avail.Available.IsZero() {
		t.Errorf("available: want 0, got %s", avail.Available)
	}
	if avail.Sufficient {
		t.Error("nothing available must not be sufficient")
	}
	if avail.RecommendedSourceIDs == nil || len(avail.RecommendedSourceIDs) != 0 {
		t.Errorf("expected empty recommendation list, got %v", avail.RecommendedSourceIDs)
	}
}

func TestCheckAvailability_ExactMatchOnly(t *testing.T) {
	repo := seedUnits(t, countUnit("Router", "TP-Link"))
	resolver := allocation.NewResolver(repo)

	avail, err := resolver.CheckAvailability(context.Background(), "router", "TP-Link", qty(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !avail.Available.IsZero() {
		t.Error("matching must be case-sensitive")
	}
}
