package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

const orderColumns = `id, user_id, status, total, currency, shipping_email, created_at, updated_at`

type OrderRepository struct{ db *sql.DB }

func NewOrderRepository(db *sql.DB) outbound.OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`

	var args []interface{}
	argIndex := 1
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}
	if filter.After != nil {
		clause, cursorArgs := afterCursor(filter.After, argIndex)
		query += " AND " + clause
		args = append(args, cursorArgs...)
		argIndex += len(cursorArgs)
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
		return nil, apperror.NewStoreError("list orders", err)
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperror.NewStoreError("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStoreError("list orders", err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, lookupError(err, "order", id, "find order")
	}
	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	query := `
        UPDATE orders SET status = $2, updated_at = now()
        WHERE id = $1
        RETURNING ` + orderColumns

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id, string(status)))
	if err != nil {
		return nil, lookupError(err, "order", id, "update order status")
	}
	return o, nil
}

func scanOrder(row scanner) (*entity.Order, error) {
	var (
		o      entity.Order
		status string
		email  sql.NullString
	)
	if err := row.Scan(&o.ID, &o.UserID, &status, &o.Total, &o.Currency, &email, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	o.ShippingEmail = stringPtr(email)
	return &o, nil
}
