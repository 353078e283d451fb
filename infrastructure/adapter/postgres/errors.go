package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	apperror "github.com/storedesk/storedesk/domain/error"
)

// SQLSTATE invalid_text_representation, raised when an id is not a valid uuid
const invalidTextRepresentation pq.ErrorCode = "22P02"

// lookupError maps the failure of a by-id statement. A missing row and an id
// that cannot be a uuid are both NotFound.
func lookupError(err error, entityName, id, operation string) error {
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return apperror.NewNotFoundError(entityName, id)
	}
	return apperror.NewStoreError(operation, err)
}

func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation
}
