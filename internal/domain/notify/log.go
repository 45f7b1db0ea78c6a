// Package notify provides notification sinks for ledger side effects.
// The core only defines the hook point; delivery channels live here.
package notify

import (
	"context"

	"fieldstock/internal/domain/inventory"
	"fieldstock/pkg/logger"
)

// LogNotifier writes alerts to the structured log. Stands in for the
// administrative messaging channel.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// AssetDamaged implements inventory.Notifier.
func (n *LogNotifier) AssetDamaged(ctx context.Context, unit inventory.InventoryUnit) {
	logger.Warn(ctx, "asset reported damaged",
		"unit_id", unit.ID,
		"item", unit.ItemName,
		"brand", unit.Brand,
		"location", unit.Location,
	)
}

var _ inventory.Notifier = (*LogNotifier)(nil)
