package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

const eventColumns = `id, title, description, link, background_color, text_color, start_date, end_date,
        discount_percentage, is_active, created_at, updated_at`

type EventRepository struct{ db *sql.DB }

func NewEventRepository(db *sql.DB) outbound.EventRepository {
	return &EventRepository{db: db}
}

// List returns events overlapping [From, To] ordered by start date
func (r *EventRepository) List(ctx context.Context, filter entity.EventFilter) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`

	var conditions []string
	var args []interface{}
	argIndex := 1
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", argIndex))
		args = append(args, *filter.To)
		argIndex++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, *filter.IsActive)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewStoreError("list events", err)
	}
	defer rows.Close()

	events := []*entity.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, apperror.NewStoreError("scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStoreError("list events", err)
	}
	return events, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entity.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, lookupError(err, "event", id, "find event")
	}
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	title, err := json.Marshal(event.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal title: %w", err)
	}
	description, err := json.Marshal(event.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal description: %w", err)
	}

	query := `
        INSERT INTO events (title, description, link, background_color, text_color, start_date, end_date,
            discount_percentage, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + eventColumns

	created, err := scanEvent(r.db.QueryRowContext(ctx, query,
		string(title),
		string(description),
		event.Link,
		event.BackgroundColor,
		event.TextColor,
		event.StartDate,
		event.EndDate,
		event.DiscountPercentage,
		event.IsActive,
	))
	if err != nil {
		return nil, apperror.NewStoreError("create event", err)
	}
	return created, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error) {
	set, args, err := eventSetClause(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, apperror.NewValidationError("patch", "no fields to update")
	}

	args = append(args, id)
	query := fmt.Sprintf(`
        UPDATE events SET %s, updated_at = now()
        WHERE id = $%d
        RETURNING `+eventColumns, strings.Join(set, ", "), len(args))

	updated, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, lookupError(err, "event", id, "update event")
	}
	return updated, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return lookupError(err, "event", id, "delete event")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewStoreError("delete event", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("event", id)
	}
	return nil
}

func eventSetClause(patch entity.EventPatch) ([]string, []interface{}, error) {
	var set []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
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
	if patch.Link != nil {
		add("link", *patch.Link)
	}
	if patch.BackgroundColor != nil {
		add("background_color", *patch.BackgroundColor)
	}
	if patch.TextColor != nil {
		add("text_color", *patch.TextColor)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.DiscountPercentage != nil {
		add("discount_percentage", *patch.DiscountPercentage)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	return set, args, nil
}

func scanEvent(row scanner) (*entity.Event, error) {
	var (
		e                  entity.Event
		title, description []byte
		link               sql.NullString
	)
	err := row.Scan(
		&e.ID,
		&title,
		&description,
		&link,
		&e.BackgroundColor,
		&e.TextColor,
		&e.StartDate,
		&e.EndDate,
		&e.DiscountPercentage,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Link = link.String

	if len(title) > 0 {
		if err := json.Unmarshal(title, &e.Title); err != nil {
			return nil, fmt.Errorf("failed to unmarshal title: %w", err)
		}
	}
	if len(description) > 0 {
		if err := json.Unmarshal(description, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to unmarshal description: %w", err)
		}
	}
	return &e, nil
}
