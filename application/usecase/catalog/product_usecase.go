package catalog

import (
	"context"
	"fmt"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

const maxDuplicateAttempts = 20

type ProductUseCase struct {
	products  outbound.ProductRepository
	companion outbound.CompanionAPI
	session   outbound.SessionProvider
	recorder  inbound.AuditRecorder
	logger    logger.Logger
}

func NewProductUseCase(
	products outbound.ProductRepository,
	companion outbound.CompanionAPI,
	session outbound.SessionProvider,
	recorder inbound.AuditRecorder,
	log logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		products:  products,
		companion: companion,
		session:   session,
		recorder:  recorder,
		logger:    log,
	}
}

var _ inbound.ProductUseCase = (*ProductUseCase)(nil)

func (uc *ProductUseCase) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	if _, err := authorize(ctx, uc.session, "view products", func(p entity.Permissions) bool { return p.CanViewProducts }); err != nil {
		return nil, err
	}
	filter.Limit = clampLimit(filter.Limit)
	return uc.products.List(ctx, filter)
}

func (uc *ProductUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	if _, err := authorize(ctx, uc.session, "view products", func(p entity.Permissions) bool { return p.CanViewProducts }); err != nil {
		return nil, err
	}
	return uc.products.FindByID(ctx, id)
}

func (uc *ProductUseCase) Create(ctx context.Context, req inbound.CreateProductRequest) (*entity.Product, error) {
	if _, err := authorize(ctx, uc.session, "create products", func(p entity.Permissions) bool { return p.CanCreateProducts }); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Slug:               req.Slug,
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		Currency:           req.Currency,
		Stock:              req.Stock,
		Category:           req.Category,
		Tags:               req.Tags,
		Images:             req.Images,
		DiscountPercentage: req.DiscountPercentage,
		DiscountActive:     req.DiscountActive,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := uc.ensureSlugFree(ctx, product.Slug); err != nil {
		return nil, err
	}

	created, err := uc.products.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	_ = uc.recorder.ProductCreated(ctx, created)
	return created, nil
}

func (uc *ProductUseCase) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	if _, err := authorize(ctx, uc.session, "edit products", func(p entity.Permissions) bool { return p.CanEditProducts }); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperror.NewValidationError("body", "no fields to update")
	}

	before, err := uc.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate := patch.Apply(*before)
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if patch.Slug != nil && *patch.Slug != before.Slug {
		if err := uc.ensureSlugFree(ctx, *patch.Slug); err != nil {
			return nil, err
		}
	}

	after, err := uc.products.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	_ = uc.recorder.ProductUpdated(ctx, before, after)
	return after, nil
}

// Delete goes through the companion API; the dashboard credentials cannot delete products.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := authorize(ctx, uc.session, "delete products", func(p entity.Permissions) bool { return p.CanDeleteProducts }); err != nil {
		return err
	}

	before, err := uc.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.companion.DeleteProduct(ctx, id); err != nil {
		return err
	}

	_ = uc.recorder.ProductDeleted(ctx, before)
	return nil
}

// Duplicate copies a product under the first free "<slug>-copy[-n]" slug
func (uc *ProductUseCase) Duplicate(ctx context.Context, id string) (*entity.Product, error) {
	if _, err := authorize(ctx, uc.session, "create products", func(p entity.Permissions) bool { return p.CanCreateProducts }); err != nil {
		return nil, err
	}

	source, err := uc.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug, err := uc.nextCopySlug(ctx, source.Slug)
	if err != nil {
		return nil, err
	}

	duplicate := *source
	duplicate.ID = ""
	duplicate.Slug = slug
	duplicate.Title = copyTitle(source.Title)

	created, err := uc.products.Create(ctx, &duplicate)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate product: %w", err)
	}

	_ = uc.recorder.ProductCreated(ctx, created)
	return created, nil
}

func (uc *ProductUseCase) ensureSlugFree(ctx context.Context, slug string) error {
	existing, err := uc.products.FindBySlug(ctx, slug)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing != nil {
		return apperror.NewValidationError("slug", fmt.Sprintf("%q is already in use", slug))
	}
	return nil
}

// nextCopySlug tries slug-copy, then slug-copy-2 up to slug-copy-<maxDuplicateAttempts>.
func (uc *ProductUseCase) nextCopySlug(ctx context.Context, slug string) (string, error) {
	for i := 1; i <= maxDuplicateAttempts; i++ {
		candidate := slug + "-copy"
		if i > 1 {
			candidate = fmt.Sprintf("%s-copy-%d", slug, i)
		}
		err := uc.ensureSlugFree(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !apperror.IsValidationError(err) {
			return "", err
		}
	}
	return "", apperror.NewValidationError("slug", "too many copies of "+slug)
}

func copyTitle(title map[string]string) map[string]string {
	out := make(map[string]string, len(title))
	for lang, text := range title {
		out[lang] = text
	}
	if en, ok := out["en"]; ok && en != "" {
		out["en"] = en + " (Copy)"
	}
	return out
}
