package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

func productWithID(id string) *entity.Product {
	p := sampleProduct()
	p.ID = id
	p.Slug = "product-" + id
	return p
}

func TestBulkUseCase_BulkDelete_PartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(actorWith(entity.RoleAdmin))
	metrics := new(MockMetrics)

	for _, id := range []string{"a", "b", "c"} {
		f.products.On("FindByID", ctx, id).Return(productWithID(id), nil)
	}
	f.companion.On("DeleteProduct", ctx, "a").Return(nil)
	f.companion.On("DeleteProduct", ctx, "b").Return(apperror.NewCompanionAPIError(500, "storage unavailable"))
	f.companion.On("DeleteProduct", ctx, "c").Return(nil)
	f.recorder.On("ProductDeleted", ctx, mock.Anything).Return(nil)
	metrics.On("BulkItemProcessed", "delete", "succeeded").Return()
	metrics.On("BulkItemProcessed", "delete", "failed").Return()

	uc := NewBulkUseCase(f.uc, metrics, logger.NewNopLogger(), 2)
	result, err := uc.BulkDelete(ctx, []string{"a", "b", "c"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrCompanionAPI)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []inbound.BulkItemResult{
		{ID: "a", Success: true},
		{ID: "b", Success: false, Error: "storage unavailable"},
		{ID: "c", Success: true},
	}, result.Items)

	// Succeeded items stay deleted and are each audited.
	f.companion.AssertNumberOfCalls(t, "DeleteProduct", 3)
	f.recorder.AssertNumberOfCalls(t, "ProductDeleted", 2)
	metrics.AssertNumberOfCalls(t, "BulkItemProcessed", 3)
}

func TestBulkUseCase_BulkSetDiscount(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(actorWith(entity.RoleEditor))
	discount := 15.0
	active := true
	patch := entity.ProductPatch{DiscountPercentage: &discount, DiscountActive: &active}

	for _, id := range []string{"a", "b"} {
		before := productWithID(id)
		after := productWithID(id)
		after.DiscountPercentage = discount
		after.DiscountActive = true
		f.products.On("FindByID", ctx, id).Return(before, nil)
		f.products.On("Update", ctx, id, patch).Return(after, nil)
	}
	f.recorder.On("ProductUpdated", ctx, mock.Anything, mock.Anything).Return(nil)

	uc := NewBulkUseCase(f.uc, nil, logger.NewNopLogger(), 0)
	result, err := uc.BulkSetDiscount(ctx, inbound.BulkDiscountRequest{IDs: []string{"a", "b"}, DiscountPercentage: discount, DiscountActive: true})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Zero(t, result.Failed)
	f.recorder.AssertNumberOfCalls(t, "ProductUpdated", 2)
}

func TestBulkUseCase_Validation(t *testing.T) {
	ctx := context.Background()
	uc := NewBulkUseCase(newProductFixture(actorWith(entity.RoleAdmin)).uc, nil, logger.NewNopLogger(), 0)

	tests := []struct {
		name string
		call func() (*inbound.BulkResult, error)
	}{
		{"no ids", func() (*inbound.BulkResult, error) { return uc.BulkDelete(ctx, nil) }},
		{"discount above 100", func() (*inbound.BulkResult, error) {
			return uc.BulkSetDiscount(ctx, inbound.BulkDiscountRequest{IDs: []string{"a"}, DiscountPercentage: 101})
		}},
		{"empty category", func() (*inbound.BulkResult, error) {
			return uc.BulkSetCategory(ctx, inbound.BulkCategoryRequest{IDs: []string{"a"}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.call()
			assert.Nil(t, result)
			assert.True(t, apperror.IsValidationError(err))
		})
	}
}
