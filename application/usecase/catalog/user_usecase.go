package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

const minPasswordLength = 8

// UserUseCase reads admin users from the store and routes every mutation
// through the companion API.
type UserUseCase struct {
	users     outbound.UserRepository
	companion outbound.CompanionAPI
	session   outbound.SessionProvider
	recorder  inbound.AuditRecorder
	logger    logger.Logger
}

func NewUserUseCase(
	users outbound.UserRepository,
	companion outbound.CompanionAPI,
	session outbound.SessionProvider,
	recorder inbound.AuditRecorder,
	log logger.Logger,
) *UserUseCase {
	return &UserUseCase{
		users:     users,
		companion: companion,
		session:   session,
		recorder:  recorder,
		logger:    log,
	}
}

var _ inbound.UserUseCase = (*UserUseCase)(nil)

func (uc *UserUseCase) List(ctx context.Context, filter entity.UserFilter) ([]*entity.AdminUser, error) {
	if _, err := authorize(ctx, uc.session, "view users", func(p entity.Permissions) bool { return p.CanViewUsers }); err != nil {
		return nil, err
	}
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, apperror.NewValidationError("role", fmt.Sprintf("unknown role %q", *filter.Role))
	}
	filter.Limit = clampLimit(filter.Limit)
	return uc.users.List(ctx, filter)
}

func (uc *UserUseCase) Get(ctx context.Context, id string) (*entity.AdminUser, error) {
	if _, err := authorize(ctx, uc.session, "view users", func(p entity.Permissions) bool { return p.CanViewUsers }); err != nil {
		return nil, err
	}
	return uc.users.FindByID(ctx, id)
}

func (uc *UserUseCase) Create(ctx context.Context, req inbound.CreateUserRequest) (*entity.AdminUser, error) {
	if _, err := authorize(ctx, uc.session, "create users", func(p entity.Permissions) bool { return p.CanCreateUsers }); err != nil {
		return nil, err
	}
	if err := validateCreateUser(req); err != nil {
		return nil, err
	}

	created, err := uc.companion.CreateUser(ctx, outbound.CreateUserInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return nil, err
	}

	_ = uc.recorder.UserCreated(ctx, created)
	return created, nil
}

// CreateDirect is kept so old clients get a clear answer instead of a 404
func (uc *UserUseCase) CreateDirect(ctx context.Context, req inbound.CreateUserRequest) (*entity.AdminUser, error) {
	return nil, apperror.NewUnsupportedOperationError("direct user creation; use the companion API")
}

func (uc *UserUseCase) UpdateRole(ctx context.Context, id string, role entity.Role) (*entity.AdminUser, error) {
	if _, err := authorize(ctx, uc.session, "edit users", func(p entity.Permissions) bool { return p.CanEditUsers }); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperror.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	before, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Role == role {
		return nil, apperror.NewValidationError("role", "user already has role "+string(role))
	}

	if err := uc.companion.UpdateUserRole(ctx, id, role); err != nil {
		return nil, err
	}

	after, err := uc.users.FindByID(ctx, id)
	if err != nil {
		// The change went through; report it from the snapshot we already hold.
		copied := *before
		copied.Role = role
		copied.UpdatedAt = time.Now().UTC()
		after = &copied
	}

	_ = uc.recorder.UserRoleUpdated(ctx, after, before.Role, role)
	return after, nil
}

func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if _, err := authorize(ctx, uc.session, "delete users", func(p entity.Permissions) bool { return p.CanDeleteUsers }); err != nil {
		return err
	}

	before, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.companion.DeleteUser(ctx, id); err != nil {
		return err
	}

	_ = uc.recorder.UserDeleted(ctx, before)
	return nil
}

func (uc *UserUseCase) RecordLogin(ctx context.Context) error {
	actor, err := uc.session.CurrentActor(ctx)
	if err != nil || actor == nil {
		return apperror.NewUnauthenticatedError("no authenticated actor")
	}
	logger.LogAuthEvent(ctx, uc.logger, "login", actor.ID, "", true, map[string]interface{}{"email": actor.Email})
	_ = uc.recorder.UserLogin(ctx, actor)
	return nil
}

func (uc *UserUseCase) RecordLogout(ctx context.Context) error {
	actor, err := uc.session.CurrentActor(ctx)
	if err != nil || actor == nil {
		return apperror.NewUnauthenticatedError("no authenticated actor")
	}
	logger.LogAuthEvent(ctx, uc.logger, "logout", actor.ID, "", true, map[string]interface{}{"email": actor.Email})
	_ = uc.recorder.UserLogout(ctx, actor)
	return nil
}

func validateCreateUser(req inbound.CreateUserRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apperror.NewValidationError("email", "a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return apperror.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if !req.Role.Valid() {
		return apperror.NewValidationError("role", fmt.Sprintf("unknown role %q", req.Role))
	}
	return nil
}
