package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/pkg/composables"
	"github.com/clearline-hq/clearline/pkg/eventbus"
)

type EventService struct {
	repo      event.Repository
	publisher eventbus.EventBus
}

func NewEventService(repo event.Repository, publisher eventbus.EventBus) *EventService {
	return &EventService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *EventService) GetPaginated(ctx context.Context, params *event.FindParams) ([]event.Event, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (event.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) Create(ctx context.Context, dto *event.CreateDTO) (event.Event, error) {
	if dto == nil {
		return event.Event{}, errors.New("missing dto")
	}
	dto.Normalize()
	if errs := dto.Validate(); len(errs) > 0 {
		return event.Event{}, errs
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return event.Event{}, err
	}

	entity := event.New(tenantID, dto.CompanyID, dto.Code, dto.Name, dto.FiscalYear)
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (event.Event, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return event.Event{}, err
	}

	s.publisher.Publish(event.CreatedEvent{Result: created})
	return created, nil
}

// Confirm freezes the event's hierarchy. Confirming twice is not an error;
// the second call returns the event unchanged and publishes nothing.
func (s *EventService) Confirm(ctx context.Context, id uuid.UUID) (event.Event, error) {
	var transitioned bool
	confirmed, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (event.Event, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return event.Event{}, err
		}
		if current.IsConfirmed() {
			return current, nil
		}
		transitioned = true
		return s.repo.Confirm(txCtx, id)
	})
	if err != nil {
		return event.Event{}, err
	}

	if transitioned {
		s.publisher.Publish(event.ConfirmedEvent{Result: confirmed})
	}
	return confirmed, nil
}
