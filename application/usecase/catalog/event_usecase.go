package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

// duplicateEventSpan is how long a duplicated event runs from now
const duplicateEventSpan = 7 * 24 * time.Hour

type EventUseCase struct {
	events   outbound.EventRepository
	session  outbound.SessionProvider
	recorder inbound.AuditRecorder
	logger   logger.Logger
	now      func() time.Time
}

func NewEventUseCase(
	events outbound.EventRepository,
	session outbound.SessionProvider,
	recorder inbound.AuditRecorder,
	log logger.Logger,
) *EventUseCase {
	return &EventUseCase{
		events:   events,
		session:  session,
		recorder: recorder,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ inbound.EventUseCase = (*EventUseCase)(nil)

func (uc *EventUseCase) List(ctx context.Context, filter entity.EventFilter) ([]*entity.Event, error) {
	if _, err := authorize(ctx, uc.session, "view events", func(p entity.Permissions) bool { return p.CanViewEvents }); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperror.NewValidationError("to", "must not be before from")
	}
	return uc.events.List(ctx, filter)
}

func (uc *EventUseCase) Get(ctx context.Context, id string) (*entity.Event, error) {
	if _, err := authorize(ctx, uc.session, "view events", func(p entity.Permissions) bool { return p.CanViewEvents }); err != nil {
		return nil, err
	}
	return uc.events.FindByID(ctx, id)
}

func (uc *EventUseCase) Create(ctx context.Context, req inbound.CreateEventRequest) (*entity.Event, error) {
	if _, err := authorize(ctx, uc.session, "create events", func(p entity.Permissions) bool { return p.CanCreateEvents }); err != nil {
		return nil, err
	}

	event := &entity.Event{
		Title:              req.Title,
		Description:        req.Description,
		Link:               req.Link,
		BackgroundColor:    req.BackgroundColor,
		TextColor:          req.TextColor,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           req.IsActive,
	}
	return uc.create(ctx, event)
}

func (uc *EventUseCase) Update(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error) {
	if _, err := authorize(ctx, uc.session, "edit events", func(p entity.Permissions) bool { return p.CanEditEvents }); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperror.NewValidationError("body", "no fields to update")
	}
	return uc.update(ctx, id, patch)
}

func (uc *EventUseCase) Delete(ctx context.Context, id string) error {
	if _, err := authorize(ctx, uc.session, "delete events", func(p entity.Permissions) bool { return p.CanDeleteEvents }); err != nil {
		return err
	}

	before, err := uc.events.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	_ = uc.recorder.EventDeleted(ctx, before)
	return nil
}

// ToggleActive flips is_active and is logged as a regular update
func (uc *EventUseCase) ToggleActive(ctx context.Context, id string) (*entity.Event, error) {
	if _, err := authorize(ctx, uc.session, "edit events", func(p entity.Permissions) bool { return p.CanEditEvents }); err != nil {
		return nil, err
	}

	current, err := uc.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := !current.IsActive
	return uc.update(ctx, id, entity.EventPatch{IsActive: &active})
}

// Duplicate copies the presentation fields into a new inactive event that runs for a week from now
func (uc *EventUseCase) Duplicate(ctx context.Context, id string) (*entity.Event, error) {
	if _, err := authorize(ctx, uc.session, "create events", func(p entity.Permissions) bool { return p.CanCreateEvents }); err != nil {
		return nil, err
	}

	source, err := uc.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start := uc.now()
	duplicate := &entity.Event{
		Title:              source.Title,
		Description:        source.Description,
		Link:               source.Link,
		BackgroundColor:    source.BackgroundColor,
		TextColor:          source.TextColor,
		StartDate:          start,
		EndDate:            start.Add(duplicateEventSpan),
		DiscountPercentage: source.DiscountPercentage,
		IsActive:           false,
	}
	return uc.create(ctx, duplicate)
}

func (uc *EventUseCase) create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.events.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	_ = uc.recorder.EventCreated(ctx, created)
	return created, nil
}

func (uc *EventUseCase) update(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error) {
	before, err := uc.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate := patch.Apply(*before)
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	after, err := uc.events.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	_ = uc.recorder.EventUpdated(ctx, before, after)
	return after, nil
}
