package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

const auditLogColumns = `id, user_id, user_email, action, entity_type, entity_id, entity_name,
        changes, metadata, reverted, reverted_at, reverted_by, deleted, deleted_at, deleted_by, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// AuditLogRepository implements outbound.AuditLogRepository on the audit_logs table
type AuditLogRepository struct{ db *sql.DB }

func NewAuditLogRepository(db *sql.DB) outbound.AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Insert(ctx context.Context, log *entity.AuditLog) (*entity.AuditLog, error) {
	changesJSON, err := nullableJSON(log.Changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal changes: %w", err)
	}
	var metadataJSON interface{}
	if len(log.Metadata) > 0 {
		raw, err := json.Marshal(log.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = string(raw)
	}

	query := `
        INSERT INTO audit_logs (user_id, user_email, action, entity_type, entity_id, entity_name, changes, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + auditLogColumns

	stored, err := scanAuditLog(r.db.QueryRowContext(ctx, query,
		log.UserID,
		log.UserEmail,
		string(log.Action),
		string(log.EntityType),
		log.EntityID,
		log.EntityName,
		changesJSON,
		metadataJSON,
	))
	if err != nil {
		return nil, apperror.NewStoreError("insert audit log", err)
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	return stored, nil
}

func (r *AuditLogRepository) FindByID(ctx context.Context, id string) (*entity.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE id = $1`

	log, err := scanAuditLog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupError(err, "audit log", id, "find audit log")
	}
	return log, nil
}

func (r *AuditLogRepository) List(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLog, error) {
	query, args := buildAuditLogListQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewStoreError("list audit logs", err)
	}
	defer rows.Close()

	logs := []*entity.AuditLog{}
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, apperror.NewStoreError("scan audit log", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStoreError("list audit logs", err)
	}
	return logs, nil
}

// MarkReverted flips the flag once. Of two concurrent reverts only one gets the
// row back; the other sees zero rows and is NotRevertible.
func (r *AuditLogRepository) MarkReverted(ctx context.Context, id, actorID string, at time.Time) (*entity.AuditLog, error) {
	query := `
        UPDATE audit_logs
        SET reverted = true, reverted_at = $2, reverted_by = $3
        WHERE id = $1 AND reverted = false
        RETURNING ` + auditLogColumns

	log, err := scanAuditLog(r.db.QueryRowContext(ctx, query, id, at, actorID))
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, lookupError(err, "audit log", id, "mark audit log reverted")
	}

	// Zero rows: either the log does not exist or it was already reverted.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, apperror.NewNotRevertibleError(id, "already reverted")
}

func (r *AuditLogRepository) ReleaseRevert(ctx context.Context, id, actorID string, at time.Time) error {
	query := `
        UPDATE audit_logs
        SET reverted = false, reverted_at = NULL, reverted_by = NULL
        WHERE id = $1 AND reverted = true AND reverted_by = $2 AND reverted_at = $3`

	result, err := r.db.ExecContext(ctx, query, id, actorID, at)
	if err != nil {
		return lookupError(err, "audit log", id, "release audit log revert")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewStoreError("release audit log revert", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("audit log revert claim", id)
	}
	return nil
}

func (r *AuditLogRepository) MarkDeleted(ctx context.Context, id, actorID string, at time.Time) (*entity.AuditLog, error) {
	query := `
        UPDATE audit_logs
        SET deleted = true, deleted_at = $2, deleted_by = $3
        WHERE id = $1
        RETURNING ` + auditLogColumns

	log, err := scanAuditLog(r.db.QueryRowContext(ctx, query, id, at, actorID))
	if err != nil {
		return nil, lookupError(err, "audit log", id, "mark audit log deleted")
	}
	return log, nil
}

// buildAuditLogListQuery turns a filter into SQL. Soft-deleted rows are
// excluded unless IncludeDeleted is set.
func buildAuditLogListQuery(filter entity.AuditLogFilter) (string, []interface{}) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE 1=1`

	var conditions []string
	var args []interface{}
	argIndex := 1
	add := func(clause string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(clause, argIndex))
		args = append(args, value)
		argIndex++
	}

	if !filter.IncludeDeleted {
		conditions = append(conditions, "deleted = false")
	}
	if filter.Action != nil {
		add("action = $%d", string(*filter.Action))
	}
	if filter.EntityType != nil {
		add("entity_type = $%d", string(*filter.EntityType))
	}
	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.StartDate != nil {
		add("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("created_at <= $%d", *filter.EndDate)
	}
	if filter.Reverted != nil {
		add("reverted = $%d", *filter.Reverted)
	}
	if filter.Deleted != nil {
		add("deleted = $%d", *filter.Deleted)
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
	return query, args
}

func scanAuditLog(row scanner) (*entity.AuditLog, error) {
	var (
		log                    entity.AuditLog
		entityID, entityName   sql.NullString
		revertedBy, deletedBy  sql.NullString
		revertedAt, deletedAt  sql.NullTime
		changesRaw, metaRaw    []byte
		action, entityTypeText string
	)
	err := row.Scan(
		&log.ID,
		&log.UserID,
		&log.UserEmail,
		&action,
		&entityTypeText,
		&entityID,
		&entityName,
		&changesRaw,
		&metaRaw,
		&log.Reverted,
		&revertedAt,
		&revertedBy,
		&log.Deleted,
		&deletedAt,
		&deletedBy,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	log.Action = entity.AuditAction(action)
	log.EntityType = entity.EntityType(entityTypeText)
	log.EntityID = stringPtr(entityID)
	log.EntityName = stringPtr(entityName)
	log.RevertedAt = timePtr(revertedAt)
	log.RevertedBy = stringPtr(revertedBy)
	log.DeletedAt = timePtr(deletedAt)
	log.DeletedBy = stringPtr(deletedBy)

	if len(changesRaw) > 0 {
		var changes entity.Changes
		if err := json.Unmarshal(changesRaw, &changes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal changes: %w", err)
		}
		log.Changes = &changes
	}
	if len(metaRaw) > 0 {
		if err := json.Unmarshal(metaRaw, &log.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &log, nil
}

// nullableJSON marshals v to a string for a jsonb column, or nil for SQL NULL
func nullableJSON(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if c, ok := v.(*entity.Changes); ok && c == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
