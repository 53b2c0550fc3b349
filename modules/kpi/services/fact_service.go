package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/pkg/composables"
)

type FactService struct {
	repo  fact.Repository
	items masteritem.Repository
}

func NewFactService(repo fact.Repository, items masteritem.Repository) *FactService {
	return &FactService{
		repo:  repo,
		items: items,
	}
}

// ListByItem returns the item's fact rows ordered by period code. The item
// is resolved first so an unknown id surfaces as a not-found error rather
// than an empty list.
func (s *FactService) ListByItem(ctx context.Context, itemID uuid.UUID) ([]fact.Fact, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListByItem(ctx, itemID)
}

func (s *FactService) GetByID(ctx context.Context, id uuid.UUID) (fact.Fact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FactService) Create(ctx context.Context, dto *fact.CreateDTO) (fact.Fact, error) {
	if dto == nil {
		return fact.Fact{}, errors.New("missing dto")
	}
	dto.Normalize()
	if errs := dto.Validate(); len(errs) > 0 {
		return fact.Fact{}, errs
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return fact.Fact{}, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (fact.Fact, error) {
		// GetByID only resolves active items, so facts cannot attach to a
		// logically deleted one.
		if _, err := s.items.GetByID(txCtx, dto.ItemID); err != nil {
			return fact.Fact{}, err
		}

		actor := composables.UseActor(txCtx)
		entity := fact.New(tenantID, dto.ItemID, dto.PeriodCode, dto.Target, dto.Actual).
			WithPeriod(dto.PeriodStart, dto.PeriodEnd).
			WithDepartmentID(dto.DepartmentID).
			WithNotes(dto.Notes).
			WithAudit(actor, actor)
		return s.repo.Create(txCtx, entity)
	})
}

func (s *FactService) Update(ctx context.Context, id uuid.UUID, patch fact.UpdatePatch) (fact.Fact, error) {
	if actor := composables.UseActor(ctx); actor != "" && patch.UpdatedBy == nil {
		patch.UpdatedBy = &actor
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (fact.Fact, error) {
		return s.repo.Update(txCtx, id, patch)
	})
}
