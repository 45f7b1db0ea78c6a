package movement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/pkg/logger"
)

// Repository persists the movement journal as a single ordered collection.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Log provides append and recompute operations over the movement journal.
//
// Inserting an entry with an earlier date than existing entries of the
// same group retroactively recalculates every later entry's BalanceAfter.
// The recompute always re-sorts and re-walks the whole group, so the
// final sequence is independent of insertion order.
type Log struct {
	repo Repository
}

// NewLog creates a movement log service.
func NewLog(repo Repository) *Log {
	return &Log{repo: repo}
}

// Record appends one entry and recomputes its group.
func (l *Log) Record(ctx context.Context, e Entry) (StockMovement, error) {
	recorded, err := l.RecordBatch(ctx, []Entry{e})
	if err != nil {
		return StockMovement{}, err
	}
	return recorded[0], nil
}

// RecordBatch appends entries and recomputes every touched group in one
// persistence write. Entries for untouched groups are merged back unchanged.
func (l *Log) RecordBatch(ctx context.Context, entries []Entry) ([]StockMovement, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	for i, e := range entries {
		if e.ItemName == "" {
			return nil, apperror.NewValidation(fmt.Sprintf("entry %d: item name is required", i))
		}
		if e.Type == "" {
			return nil, apperror.NewValidation(fmt.Sprintf("entry %d: movement type is required", i))
		}
	}

	snap, err := l.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}

	recorded := make([]StockMovement, 0, len(entries))
	touched := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		date := e.Date
		if date.IsZero() {
			date = time.Now().UTC()
		}
		m := StockMovement{
			ID:          id.New(),
			ItemName:    e.ItemName,
			Brand:       e.Brand,
			Date:        date,
			Type:        e.Type,
			Quantity:    e.Quantity.Abs(),
			ReferenceID: e.ReferenceID,
			Actor:       e.Actor,
			Notes:       e.Notes,
		}
		snap.Movements = append(snap.Movements, m)
		touched[m.GroupKey()] = struct{}{}
	}

	for key := range touched {
		recomputeGroup(snap.Movements, key)
	}

	if err := l.repo.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save movements: %w", err)
	}

	// Return the appended entries with their recomputed balances.
	recorded = append(recorded, snap.Movements[len(snap.Movements)-len(entries):]...)

	logger.Info(ctx, "recorded stock movements", "count", len(entries))
	return recorded, nil
}

// recomputeGroup rewrites BalanceAfter for every movement of one group,
// in place. Movements of other groups are left untouched.
func recomputeGroup(movements []StockMovement, key string) {
	idx := make([]int, 0, 8)
	for i := range movements {
		if movements[i].GroupKey() == key {
			idx = append(idx, i)
		}
	}

	// Sort group positions by date ascending. The sort is stable so
	// same-date entries keep their insertion order.
	sort.SliceStable(idx, func(a, b int) bool {
		return movements[idx[a]].Date.Before(movements[idx[b]].Date)
	})

	var balance types.Quantity
	for _, i := range idx {
		m := &movements[i]
		if m.Type.IsInbound() {
			balance += m.Quantity
		} else {
			balance -= m.Quantity
			if balance.IsNegative() {
				balance = 0
			}
		}
		m.BalanceAfter = balance
	}
}

// Filter narrows movement history queries.
type Filter struct {
	Type     *Type
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// History returns the group's movements ordered by date ascending.
func (l *Log) History(ctx context.Context, itemName, brand string, filter Filter) ([]StockMovement, error) {
	snap, err := l.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}

	out := make([]StockMovement, 0)
	for _, m := range snap.Movements {
		if m.ItemName != itemName || m.Brand != brand {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.FromDate != nil && m.Date.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && m.Date.After(*filter.ToDate) {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Date.Before(out[b].Date)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []StockMovement{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CurrentBalance returns the latest BalanceAfter for a group, zero when
// the group has no movements.
func (l *Log) CurrentBalance(ctx context.Context, itemName, brand string) (types.Quantity, error) {
	history, err := l.History(ctx, itemName, brand, Filter{})
	if err != nil {
		return 0, err
	}
	if len(history) == 0 {
		return 0, nil
	}
	return history[len(history)-1].BalanceAfter, nil
}
