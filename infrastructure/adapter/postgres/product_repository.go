package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

const productColumns = `id, slug, title, description, price, currency, stock, category, tags, images,
        discount_percentage, discount_active, created_at, updated_at`

// ProductRepository implements outbound.ProductRepository on the products table
type ProductRepository struct{ db *sql.DB }

func NewProductRepository(db *sql.DB) outbound.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`

	var conditions []string
	var args []interface{}
	argIndex := 1
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(slug ILIKE $%d OR title->>'en' ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}
	if filter.After != nil {
		clause, cursorArgs := afterCursor(filter.After, argIndex)
		conditions = append(conditions, clause)
		args = append(args, cursorArgs...)
		argIndex += len(cursorArgs)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += newestFirst
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewStoreError("list products", err)
	}
	defer rows.Close()

	products := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperror.NewStoreError("scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStoreError("list products", err)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.findOne(ctx, "id", id)
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return r.findOne(ctx, "slug", slug)
}

func (r *ProductRepository) findOne(ctx context.Context, column, value string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + column + ` = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, lookupError(err, "product", value, "find product")
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	title, err := json.Marshal(product.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal title: %w", err)
	}
	description, err := json.Marshal(product.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal description: %w", err)
	}

	query := `
        INSERT INTO products (slug, title, description, price, currency, stock, category, tags, images,
            discount_percentage, discount_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + productColumns

	created, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Slug,
		string(title),
		string(description),
		product.Price,
		product.Currency,
		product.Stock,
		product.Category,
		pq.Array(product.Tags),
		pq.Array(product.Images),
		product.DiscountPercentage,
		product.DiscountActive,
	))
	if err != nil {
		return nil, apperror.NewStoreError("create product", err)
	}
	return created, nil
}

// Update writes only the fields set in the patch
func (r *ProductRepository) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	set, args, err := productSetClause(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, apperror.NewValidationError("patch", "no fields to update")
	}

	args = append(args, id)
	query := fmt.Sprintf(`
        UPDATE products SET %s, updated_at = now()
        WHERE id = $%d
        RETURNING `+productColumns, strings.Join(set, ", "), len(args))

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, lookupError(err, "product", id, "update product")
	}
	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return lookupError(err, "product", id, "delete product")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewStoreError("delete product", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("product", id)
	}
	return nil
}

func productSetClause(patch entity.ProductPatch) ([]string, []interface{}, error) {
	var set []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Title != nil {
		raw, err := json.Marshal(*patch.Title)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal title: %w", err)
		}
		add("title", string(raw))
	}
	if patch.Description != nil {
		raw, err := json.Marshal(*patch.Description)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal description: %w", err)
		}
		add("description", string(raw))
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Currency != nil {
		add("currency", *patch.Currency)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Tags != nil {
		add("tags", pq.Array(*patch.Tags))
	}
	if patch.Images != nil {
		add("images", pq.Array(*patch.Images))
	}
	if patch.DiscountPercentage != nil {
		add("discount_percentage", *patch.DiscountPercentage)
	}
	if patch.DiscountActive != nil {
		add("discount_active", *patch.DiscountActive)
	}
	return set, args, nil
}

func scanProduct(row scanner) (*entity.Product, error) {
	var (
		p                  entity.Product
		title, description []byte
		category           sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&title,
		&description,
		&p.Price,
		&p.Currency,
		&p.Stock,
		&category,
		pq.Array(&p.Tags),
		pq.Array(&p.Images),
		&p.DiscountPercentage,
		&p.DiscountActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = category.String

	if len(title) > 0 {
		if err := json.Unmarshal(title, &p.Title); err != nil {
			return nil, fmt.Errorf("failed to unmarshal title: %w", err)
		}
	}
	if len(description) > 0 {
		if err := json.Unmarshal(description, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to unmarshal description: %w", err)
		}
	}
	return &p, nil
}
