package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/pkg/logger"
)

// Service provides CRUD over the item-model catalog and metadata lookup
// for allocation classification.
type Service struct {
	repo Repository

	mu sync.Mutex
}

// NewService creates a catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a model to the catalog. (name, brand) must be unique.
func (s *Service) Create(ctx context.Context, model ItemModel) (ItemModel, error) {
	if err := model.Validate(ctx); err != nil {
		return ItemModel{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return ItemModel{}, fmt.Errorf("load catalog: %w", err)
	}

	for i := range snap.Models {
		if snap.Models[i].Name == model.Name && snap.Models[i].Brand == model.Brand {
			return ItemModel{}, apperror.NewDuplicate("item model", "name", model.Name).
				WithDetail("brand", model.Brand)
		}
	}

	if id.IsNil(model.ID) {
		model.ID = id.New()
	}
	now := time.Now().UTC()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now
	if model.TrackingMethod == "" {
		model.TrackingMethod = TrackingIndividual
		if model.BulkType == BulkMeasurement {
			model.TrackingMethod = TrackingBulk
		}
	}

	snap.Models = append(snap.Models, model)
	if err := s.repo.Save(ctx, snap); err != nil {
		return ItemModel{}, fmt.Errorf("save catalog: %w", err)
	}

	logger.Info(ctx, "item model created", "id", model.ID, "name", model.Name, "brand", model.Brand)
	return model, nil
}

// Update replaces a model's mutable fields. BulkType can never change
// after creation; the ledger-side classification would otherwise drift
// from metadata.
func (s *Service) Update(ctx context.Context, model ItemModel) (ItemModel, error) {
	if err := model.Validate(ctx); err != nil {
		return ItemModel{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return ItemModel{}, fmt.Errorf("load catalog: %w", err)
	}

	for i := range snap.Models {
		if snap.Models[i].ID != model.ID {
			continue
		}
		if snap.Models[i].BulkType != model.BulkType {
			return ItemModel{}, apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"bulk type cannot change after creation").
				WithDetail("id", model.ID)
		}
		model.CreatedAt = snap.Models[i].CreatedAt
		model.UpdatedAt = time.Now().UTC()
		snap.Models[i] = model
		if err := s.repo.Save(ctx, snap); err != nil {
			return ItemModel{}, fmt.Errorf("save catalog: %w", err)
		}
		return model, nil
	}

	return ItemModel{}, apperror.NewNotFound("item model", model.ID)
}

// Delete removes a model from the catalog.
func (s *Service) Delete(ctx context.Context, modelID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	for i := range snap.Models {
		if snap.Models[i].ID == modelID {
			snap.Models = append(snap.Models[:i], snap.Models[i+1:]...)
			if err := s.repo.Save(ctx, snap); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
			return nil
		}
	}
	return apperror.NewNotFound("item model", modelID)
}

// GetByID retrieves one model.
func (s *Service) GetByID(ctx context.Context, modelID id.ID) (ItemModel, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return ItemModel{}, fmt.Errorf("load catalog: %w", err)
	}
	for i := range snap.Models {
		if snap.Models[i].ID == modelID {
			return snap.Models[i], nil
		}
	}
	return ItemModel{}, apperror.NewNotFound("item model", modelID)
}

// List returns all models in catalog order.
func (s *Service) List(ctx context.Context) ([]ItemModel, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return snap.Models, nil
}

// Classify looks up the authoritative bulk type for (itemName, brand).
// The second return is false when the catalog has no entry; callers fall
// back to the ledger-shape heuristic.
func (s *Service) Classify(ctx context.Context, itemName, brand string) (BulkType, bool, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return "", false, fmt.Errorf("load catalog: %w", err)
	}
	for i := range snap.Models {
		if snap.Models[i].Name == itemName && snap.Models[i].Brand == brand {
			return snap.Models[i].BulkType, true, nil
		}
	}
	return "", false, nil
}
