package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

const DefaultBulkConcurrency = 5

// BulkUseCase fans one product operation out over many ids. Items are
// independent: a failed item does not undo the ones that already committed.
type BulkUseCase struct {
	products    inbound.ProductUseCase
	metrics     outbound.MetricsRecorder
	logger      logger.Logger
	concurrency int
}

func NewBulkUseCase(products inbound.ProductUseCase, metrics outbound.MetricsRecorder, log logger.Logger, concurrency int) *BulkUseCase {
	if concurrency <= 0 {
		concurrency = DefaultBulkConcurrency
	}
	if metrics == nil {
		metrics = outbound.NoopMetrics()
	}
	return &BulkUseCase{
		products:    products,
		metrics:     metrics,
		logger:      log,
		concurrency: concurrency,
	}
}

var _ inbound.BulkUseCase = (*BulkUseCase)(nil)

func (uc *BulkUseCase) BulkDelete(ctx context.Context, ids []string) (*inbound.BulkResult, error) {
	return uc.run(ctx, "delete", ids, func(ctx context.Context, id string) error {
		return uc.products.Delete(ctx, id)
	})
}

func (uc *BulkUseCase) BulkSetDiscount(ctx context.Context, req inbound.BulkDiscountRequest) (*inbound.BulkResult, error) {
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return nil, apperror.NewValidationError("discount_percentage", "must be between 0 and 100")
	}
	patch := entity.ProductPatch{
		DiscountPercentage: &req.DiscountPercentage,
		DiscountActive:     &req.DiscountActive,
	}
	return uc.run(ctx, "discount", req.IDs, func(ctx context.Context, id string) error {
		_, err := uc.products.Update(ctx, id, patch)
		return err
	})
}

func (uc *BulkUseCase) BulkSetCategory(ctx context.Context, req inbound.BulkCategoryRequest) (*inbound.BulkResult, error) {
	if req.Category == "" {
		return nil, apperror.NewValidationError("category", "is required")
	}
	patch := entity.ProductPatch{Category: &req.Category}
	return uc.run(ctx, "category", req.IDs, func(ctx context.Context, id string) error {
		_, err := uc.products.Update(ctx, id, patch)
		return err
	})
}

func (uc *BulkUseCase) run(ctx context.Context, operation string, ids []string, fn func(ctx context.Context, id string) error) (*inbound.BulkResult, error) {
	if len(ids) == 0 {
		return nil, apperror.NewValidationError("ids", "at least one product id is required")
	}

	items := make([]inbound.BulkItemResult, len(ids))

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			items[i] = inbound.BulkItemResult{ID: id, Success: true}
			if err := fn(ctx, id); err != nil {
				items[i].Success = false
				items[i].Error = apperror.PublicMessage(err)
				uc.metrics.BulkItemProcessed(operation, "failed")
				return fmt.Errorf("product %s: %w", id, err)
			}
			uc.metrics.BulkItemProcessed(operation, "succeeded")
			return nil
		})
	}
	firstErr := g.Wait()

	result := &inbound.BulkResult{Items: items}
	for _, item := range items {
		if item.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	fields := map[string]interface{}{
		"operation": operation,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}
	if result.Failed > 0 {
		uc.logger.Warn(ctx, "Bulk operation partially failed", fields)
		return result, fmt.Errorf("bulk %s failed for %d of %d products, first error: %w", operation, result.Failed, len(ids), firstErr)
	}

	uc.logger.Info(ctx, "Bulk operation completed", fields)
	return result, nil
}
