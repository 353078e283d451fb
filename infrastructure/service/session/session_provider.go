package session

import (
	"context"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

// Provider resolves the request actor from the validated token claims.
// The role always comes from admin_users, never from the token.
type Provider struct {
	users outbound.UserRepository
}

var _ outbound.SessionProvider = (*Provider)(nil)

func NewProvider(users outbound.UserRepository) *Provider {
	return &Provider{users: users}
}

func (p *Provider) CurrentActor(ctx context.Context) (*entity.Actor, error) {
	if actor := outbound.ActorFromContext(ctx); actor != nil {
		return actor, nil
	}

	claims := outbound.TokenClaimsFromContext(ctx)
	if claims == nil || claims.UserID == "" {
		return nil, apperror.NewUnauthenticatedError("no session")
	}

	user, err := p.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthenticatedError("no admin account for this session")
		}
		return nil, err
	}

	email := user.Email
	if email == "" {
		email = claims.Email
	}

	return &entity.Actor{ID: user.ID, Email: email, Role: user.Role}, nil
}

// Resolve caches the actor on ctx so later calls in the same request skip the lookup
func (p *Provider) Resolve(ctx context.Context) (context.Context, *entity.Actor, error) {
	actor, err := p.CurrentActor(ctx)
	if err != nil {
		return ctx, nil, err
	}
	return outbound.WithActor(ctx, actor), actor, nil
}
