package catalog

import (
	"context"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// authorize resolves the actor and checks one capability before any store call
func authorize(ctx context.Context, session outbound.SessionProvider, capability string, allowed func(entity.Permissions) bool) (*entity.Actor, error) {
	actor, err := session.CurrentActor(ctx)
	if err != nil || actor == nil {
		return nil, apperror.NewUnauthenticatedError("no authenticated actor")
	}
	if !allowed(actor.Permissions()) {
		return nil, apperror.NewForbiddenError(capability)
	}
	return actor, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}
