package movement_test

import (
	"context"
	"testing"
	"time"

	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/movement"
	"fieldstock/internal/infrastructure/storage/memory"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func TestRecordBatch_RunningBalance(t *testing.T) {
	log := movement.NewLog(memory.NewMovementRepo())
	ctx := context.Background()

	recorded, err := log.RecordBatch(ctx, []movement.Entry{
		{ItemName: "Fiber Drum", Brand: "CommScope", Type: movement.TypeInPurchase, Quantity: qty(100)},
		{ItemName: "Fiber Drum", Brand: "CommScope", Type: movement.TypeOutInstallation, Quantity: qty(30)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorded) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(recorded))
	}
	if got := recorded[0].BalanceAfter; got != qty(100) {
		t.Errorf("first balance: want 100, got %s", got)
	}
	if got := recorded[1].BalanceAfter; got != qty(70) {
		t.Errorf("second balance: want 70, got %s", got)
	}
}

func TestRecord_RetroactiveRecompute(t *testing.T) {
	log := movement.NewLog(memory.NewMovementRepo())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Insert out of chronological order: the outbound entry first.
	if _, err := log.Record(ctx, movement.Entry{
		ItemName: "Coax", Brand: "Belden",
		Date: base.Add(48 * time.Hour), Type: movement.TypeOutInstallation, Quantity: qty(40),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := log.Record(ctx, movement.Entry{
		ItemName: "Coax", Brand: "Belden",
		Date: base, Type: movement.TypeInPurchase, Quantity: qty(100),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	history, err := log.History(ctx, "Coax", "Belden", movement.Filter{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(history))
	}

	// Date-ascending: purchase first, then the later installation.
	if history[0].Type != movement.TypeInPurchase {
		t.Errorf("expected purchase first, got %s", history[0].Type)
	}
	if got := history[0].BalanceAfter; got != qty(100) {
		t.Errorf("purchase balance: want 100, got %s", got)
	}
	if got := history[1].BalanceAfter; got != qty(60) {
		t.Errorf("installation balance: want 60, got %s", got)
	}
}

func TestRecord_OutboundFloorsAtZero(t *testing.T) {
	log := movement.NewLog(memory.NewMovementRepo())
	ctx := context.Background()

	if _, err := log.Record(ctx, movement.Entry{
		ItemName: "Patch Cord", Brand: "Generic",
		Type: movement.TypeInPurchase, Quantity: qty(10),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	m, err := log.Record(ctx, movement.Entry{
		ItemName: "Patch Cord", Brand: "Generic",
		Type: movement.TypeOutAdjustment, Quantity: qty(25),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !m.BalanceAfter.IsZero() {
		t.Errorf("balance should floor at zero, got %s", m.BalanceAfter)
	}
}

func TestRecord_QuantityStoredAsMagnitude(t *testing.T) {
	log := movement.NewLog(memory.NewMovementRepo())
	ctx := context.Background()

	m, err := log.Record(ctx, movement.Entry{
		ItemName: "Fiber Drum", Brand: "CommScope",
		Type: movement.TypeOutInstallation, Quantity: qty(-15),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := m.Quantity; got != qty(15) {
		t.Errorf("quantity: want 15, got %s", got)
	}
}

func TestRecord_OtherGroupsUntouched(t *testing.T) {
	log := movement.NewLog(memory.NewMovementRepo())
	ctx := context.Background()

	if _, err := log.Record(ctx, movement.Entry{
		ItemName: "Fiber Drum", Brand: "CommScope",
		Type: movement.TypeInPurchase, Quantity: qty(500),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := log.Record(ctx, movement.Entry{
		ItemName: "Coax", Brand: "Belden",
		Type: movement.TypeInPurchase, Quantity: qty(40),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	balance, err := log.CurrentBalance(ctx, "Fiber Drum", "CommScope")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != qty(500) {
		t.Errorf("fiber balance: want 500, got %s", balance)
	}
}

func TestRecordBatch_Validation(t *testing.T) {
	log := movement.NewLog(memory.NewMovementRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		entry movement.Entry
	}{
		{"missing item name", movement.Entry{Type: movement.TypeInPurchase, Quantity: qty(1)}},
		{"missing type", movement.Entry{ItemName: "Coax", Quantity: qty(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := log.Record(ctx, tt.entry); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHistory_Filters(t *testing.T) {
	log := movement.NewLog(memory.NewMovementRepo())
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	entries := []movement.Entry{
		{ItemName: "Coax", Brand: "Belden", Date: base, Type: movement.TypeInPurchase, Quantity: qty(100)},
		{ItemName: "Coax", Brand: "Belden", Date: base.AddDate(0, 0, 1), Type: movement.TypeOutInstallation, Quantity: qty(10)},
		{ItemName: "Coax", Brand: "Belden", Date: base.AddDate(0, 0, 2), Type: movement.TypeOutInstallation, Quantity: qty(5)},
	}
	if _, err := log.RecordBatch(ctx, entries); err != nil {
		t.Fatalf("record: %v", err)
	}

	outType := movement.TypeOutInstallation
	history, err := log.History(ctx, "Coax", "Belden", movement.Filter{Type: &outType})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("type filter: want 2 movements, got %d", len(history))
	}

	from := base.AddDate(0, 0, 2)
	history, err = log.History(ctx, "Coax", "Belden", movement.Filter{FromDate: &from})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("date filter: want 1 movement, got %d", len(history))
	}

	history, err = log.History(ctx, "Coax", "Belden", movement.Filter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Type != movement.TypeOutInstallation {
		t.Errorf("pagination: unexpected result %+v", history)
	}
}

func TestCurrentBalance_EmptyGroup(t *testing.T) {
	log := movement.NewLog(memory.NewMovementRepo())

	balance, err := log.CurrentBalance(context.Background(), "Unknown", "None")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("want zero balance, got %s", balance)
	}
}
