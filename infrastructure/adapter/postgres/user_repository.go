package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

const userColumns = `id, email, full_name, role, password_hash, created_at, updated_at`

type UserRepositoryAdapter struct {
	db *sql.DB
}

func NewUserRepositoryAdapter(db *sql.DB) outbound.UserRepository {
	return &UserRepositoryAdapter{
		db: db,
	}
}

func (r *UserRepositoryAdapter) FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error) {
	if email == "" {
		return nil, apperror.NewValidationError("email", "cannot be empty")
	}

	query := `
		SELECT ` + userColumns + `
		FROM admin_users
		WHERE lower(email) = lower($1)
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, lookupError(err, "user", email, "find user by email")
	}
	return user, nil
}

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.AdminUser, error) {
	if id == "" {
		return nil, apperror.NewValidationError("id", "user ID cannot be empty")
	}

	query := `
		SELECT ` + userColumns + `
		FROM admin_users
		WHERE id = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupError(err, "user", id, "find user by ID")
	}
	return user, nil
}

func (r *UserRepositoryAdapter) List(ctx context.Context, filter entity.UserFilter) ([]*entity.AdminUser, error) {
	query := `SELECT ` + userColumns + ` FROM admin_users WHERE 1=1`

	var conditions []string
	var args []interface{}
	argIndex := 1
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIndex))
		args = append(args, string(*filter.Role))
		argIndex++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(email ILIKE $%d OR full_name ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
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
		return nil, apperror.NewStoreError("list users", err)
	}
	defer rows.Close()

	users := []*entity.AdminUser{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewStoreError("scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStoreError("list users", err)
	}
	return users, nil
}

func (r *UserRepositoryAdapter) Create(ctx context.Context, user *entity.AdminUser) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}

	if user.ID == "" || user.Email == "" || user.PasswordHash == "" {
		return apperror.NewValidationError("user", "ID, email, and password hash are required")
	}

	query := `
		INSERT INTO admin_users (id, email, full_name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		string(user.Role),
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return apperror.NewStoreError("create user", err)
	}

	return nil
}

func (r *UserRepositoryAdapter) UpdateRole(ctx context.Context, id string, role entity.Role) (*entity.AdminUser, error) {
	query := `
		UPDATE admin_users SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, string(role)))
	if err != nil {
		return nil, lookupError(err, "user", id, "update user role")
	}
	return user, nil
}

func (r *UserRepositoryAdapter) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return lookupError(err, "user", id, "delete user")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewStoreError("delete user", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("user", id)
	}
	return nil
}

func (r *UserRepositoryAdapter) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM admin_users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, apperror.NewStoreError("check email existence", err)
	}
	return exists, nil
}

func scanUser(row scanner) (*entity.AdminUser, error) {
	var (
		user     entity.AdminUser
		role     string
		fullName sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.FullName = fullName.String
	user.Role = entity.Role(role)
	return &user, nil
}
