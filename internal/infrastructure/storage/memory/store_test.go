package memory

import (
	"context"
	"testing"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/domain/inventory"
)

func TestSave_RevisionConflict(t *testing.T) {
	repo := NewUnitRepo()
	ctx := context.Background()

	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap.Units = append(snap.Units, inventory.NewUnit("Router", "TP-Link", nil))
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Second save with the stale revision token must be rejected.
	err = repo.Save(ctx, snap)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !apperror.IsConcurrentModification(err) {
		t.Errorf("expected concurrent modification, got %v", err)
	}
}

func TestSave_RevisionAdvances(t *testing.T) {
	repo := NewUnitRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		snap, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if snap.Rev != uint64(i) {
			t.Errorf("rev: want %d, got %d", i, snap.Rev)
		}
		snap.Units = append(snap.Units, inventory.NewUnit("Router", "TP-Link", nil))
		if err := repo.Save(ctx, snap); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
}

func TestLoad_IsolatedFromStore(t *testing.T) {
	repo := NewUnitRepo()
	ctx := context.Background()

	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap.Units = append(snap.Units, inventory.NewUnit("Router", "TP-Link", nil))
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first.Units[0].Status = inventory.StatusDamaged

	second, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if second.Units[0].Status != inventory.StatusInStorage {
		t.Error("mutation of a loaded snapshot leaked into the store")
	}
}
