package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/infrastructure/storage/memory"
)

func newService() *catalog.Service {
	return catalog.NewService(memory.NewModelRepo())
}

func TestCreate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	model := catalog.NewItemModel("Fiber Drum", "CommScope", catalog.BulkMeasurement)
	model.Unit = "m"

	created, err := svc.Create(ctx, model)
	require.NoError(t, err)
	assert.False(t, id.IsNil(created.ID))
	assert.Equal(t, catalog.TrackingBulk, created.TrackingMethod)

	// Duplicate (name, brand) rejected.
	_, err = svc.Create(ctx, catalog.NewItemModel("Fiber Drum", "CommScope", catalog.BulkMeasurement))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)

	// Same name, different brand is fine.
	_, err = svc.Create(ctx, catalog.NewItemModel("Fiber Drum", "Prysmian", catalog.BulkMeasurement))
	assert.NoError(t, err)
}

func TestUpdate_BulkTypeImmutable(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, catalog.NewItemModel("Router", "TP-Link", catalog.BulkCount))
	require.NoError(t, err)

	changed := created
	changed.BulkType = catalog.BulkMeasurement
	_, err = svc.Update(ctx, changed)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)

	// Other fields update normally.
	changed = created
	changed.Category = "hardware"
	updated, err := svc.Update(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, "hardware", updated.Category)
}

func TestClassify(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.NewItemModel("Fiber Drum", "CommScope", catalog.BulkMeasurement))
	require.NoError(t, err)

	bulkType, found, err := svc.Classify(ctx, "Fiber Drum", "CommScope")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, catalog.BulkMeasurement, bulkType)

	_, found, err = svc.Classify(ctx, "Unknown", "None")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, catalog.NewItemModel("ONT", "Nokia", catalog.BulkCount))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, apperror.IsNotFound(err))
}
