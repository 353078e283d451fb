package middleware

import (
	"strings"

	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

func unauthenticated(details string) error {
	return apperror.NewUnauthenticatedError(details)
}

func forbiddenRole(roles []entity.Role) error {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return apperror.NewForbiddenError("role " + strings.Join(names, "|"))
}
