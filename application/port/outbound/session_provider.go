package outbound

import (
	"context"

	"github.com/storedesk/storedesk/domain/entity"
)

// SessionProvider resolves the authenticated actor of the current request.
// It returns an Unauthenticated error when there is none.
type SessionProvider interface {
	CurrentActor(ctx context.Context) (*entity.Actor, error)
}

// WithActor caches a resolved actor on the context
func WithActor(ctx context.Context, actor *entity.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the cached actor, or nil
func ActorFromContext(ctx context.Context) *entity.Actor {
	if actor, ok := ctx.Value(actorKey).(*entity.Actor); ok {
		return actor
	}
	return nil
}
