package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicMessage(t *testing.T) {
	driverErr := errors.New(`pq: invalid input syntax for type uuid: "not-a-uuid"`)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"store error hides driver text", NewStoreError("find audit log", driverErr), "Store operation failed"},
		{"wrapped store error", fmt.Errorf("failed to list audit logs: %w", NewStoreError("list audit logs", driverErr)), "Store operation failed"},
		{"validation carries details", NewValidationError("limit", "must be positive"), "Invalid limit: must be positive"},
		{"not found", NewNotFoundError("audit log", "not-a-uuid"), "audit log not found"},
		{"plain error", errors.New("boom"), "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicMessage(tt.err))
		})
	}
}

func TestGetHTTPStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatusCode(NewStoreError("op", errors.New("down"))))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatusCode(NewNotFoundError("product", "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatusCode(NewValidationError("id", "bad")))
	assert.Equal(t, http.StatusConflict, GetHTTPStatusCode(NewNotRevertibleError("l", "already reverted")))
}
