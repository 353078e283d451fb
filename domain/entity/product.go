package entity

import (
	"regexp"
	"time"

	apperror "github.com/storedesk/storedesk/domain/error"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Product represents a catalog product. Price is in minor currency units.
type Product struct {
	ID                 string            `json:"id"`
	Slug               string            `json:"slug"`
	Title              map[string]string `json:"title"`
	Description        map[string]string `json:"description"`
	Price              int64             `json:"price"`
	Currency           string            `json:"currency"`
	Stock              int               `json:"stock"`
	Category           string            `json:"category"`
	Tags               []string          `json:"tags"`
	Images             []string          `json:"images"`
	DiscountPercentage float64           `json:"discount_percentage"`
	DiscountActive     bool              `json:"discount_active"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// DisplayName returns the English title, falling back to the slug
func (p *Product) DisplayName() string {
	if title, ok := p.Title["en"]; ok && title != "" {
		return title
	}
	return p.Slug
}

// Validate checks the fields the store cannot be trusted to reject
func (p *Product) Validate() error {
	if !slugRegex.MatchString(p.Slug) {
		return apperror.NewValidationError("slug", "must be lowercase letters, digits and single dashes")
	}
	if p.Price < 0 {
		return apperror.NewValidationError("price", "must not be negative")
	}
	if p.Stock < 0 {
		return apperror.NewValidationError("stock", "must not be negative")
	}
	if p.DiscountPercentage < 0 || p.DiscountPercentage > 100 {
		return apperror.NewValidationError("discount_percentage", "must be between 0 and 100")
	}
	if p.Currency == "" {
		return apperror.NewValidationError("currency", "is required")
	}
	return nil
}

// ProductPatch is a partial product update. Nil fields are left unchanged.
// A "before" snapshot of any shape decodes into it; unknown keys are ignored.
type ProductPatch struct {
	Slug               *string            `json:"slug,omitempty"`
	Title              *map[string]string `json:"title,omitempty"`
	Description        *map[string]string `json:"description,omitempty"`
	Price              *int64             `json:"price,omitempty"`
	Currency           *string            `json:"currency,omitempty"`
	Stock              *int               `json:"stock,omitempty"`
	Category           *string            `json:"category,omitempty"`
	Tags               *[]string          `json:"tags,omitempty"`
	Images             *[]string          `json:"images,omitempty"`
	DiscountPercentage *float64           `json:"discount_percentage,omitempty"`
	DiscountActive     *bool              `json:"discount_active,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Slug == nil && p.Title == nil && p.Description == nil && p.Price == nil &&
		p.Currency == nil && p.Stock == nil && p.Category == nil && p.Tags == nil &&
		p.Images == nil && p.DiscountPercentage == nil && p.DiscountActive == nil
}

// Apply returns a copy of p with the patch applied
func (patch ProductPatch) Apply(p Product) Product {
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Currency != nil {
		p.Currency = *patch.Currency
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.DiscountPercentage != nil {
		p.DiscountPercentage = *patch.DiscountPercentage
	}
	if patch.DiscountActive != nil {
		p.DiscountActive = *patch.DiscountActive
	}
	return p
}

// ProductFilter represents filters for listing products
type ProductFilter struct {
	Search   string      `json:"search,omitempty"`
	Category string      `json:"category,omitempty"`
	Limit    int         `json:"limit"`
	Offset   int         `json:"offset"`
	After    *PageCursor `json:"-"`
}
