package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/selection"
	"github.com/clearline-hq/clearline/pkg/composables"
)

type MasterItemService struct {
	repo       masteritem.Repository
	events     event.Repository
	selections selection.Repository
}

func NewMasterItemService(
	repo masteritem.Repository,
	events event.Repository,
	selections selection.Repository,
) *MasterItemService {
	return &MasterItemService{
		repo:       repo,
		events:     events,
		selections: selections,
	}
}

func (s *MasterItemService) List(ctx context.Context, params *masteritem.FindParams) ([]masteritem.MasterItem, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *MasterItemService) GetByID(ctx context.Context, id uuid.UUID) (masteritem.MasterItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MasterItemService) Create(ctx context.Context, dto *masteritem.CreateDTO) (masteritem.MasterItem, error) {
	if dto == nil {
		return masteritem.MasterItem{}, errors.New("missing dto")
	}
	dto.Normalize()
	if errs := dto.Validate(); len(errs) > 0 {
		return masteritem.MasterItem{}, errs
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return masteritem.MasterItem{}, err
	}

	ref := dto.Reference()
	if ref.IsZero() {
		return masteritem.MasterItem{}, masteritem.ErrInvalidReference
	}

	entity, err := masteritem.New(tenantID, dto.EventID, dto.ParentID, dto.Code, dto.Name, ref, dto.Level, dto.SortOrder)
	if err != nil {
		return masteritem.MasterItem{}, err
	}
	entity = entity.WithDepartmentID(dto.DepartmentID).WithOwnerEmployeeID(dto.OwnerEmployeeID)

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (masteritem.MasterItem, error) {
		ev, err := s.events.GetByID(txCtx, dto.EventID)
		if err != nil {
			return masteritem.MasterItem{}, err
		}
		if ev.IsConfirmed() {
			return masteritem.MasterItem{}, event.ErrConfirmed
		}

		if err := s.validateReference(txCtx, ref); err != nil {
			return masteritem.MasterItem{}, err
		}
		if err := s.validateParent(txCtx, entity); err != nil {
			return masteritem.MasterItem{}, err
		}

		return s.repo.Create(txCtx, entity)
	})
}

// Update applies the patch to an active item. Once the owning event is
// confirmed the hierarchy is frozen and every mutation is refused.
func (s *MasterItemService) Update(ctx context.Context, id uuid.UUID, patch *masteritem.UpdatePatch) (masteritem.MasterItem, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (masteritem.MasterItem, error) {
		item, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return masteritem.MasterItem{}, err
		}

		ev, err := s.events.GetByID(txCtx, item.EventID())
		if err != nil {
			return masteritem.MasterItem{}, err
		}
		if ev.IsConfirmed() {
			return masteritem.MasterItem{}, event.ErrConfirmed
		}

		return s.repo.Update(txCtx, id, patch)
	})
}

// Delete logically removes an item. It reports whether this call removed the
// row; deleting an unknown or already deleted item returns (false, nil).
// Items of a confirmed event cannot be removed.
func (s *MasterItemService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (bool, error) {
		item, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, masteritem.ErrNotFound) {
				return false, nil
			}
			return false, err
		}

		ev, err := s.events.GetByID(txCtx, item.EventID())
		if err != nil {
			return false, err
		}
		if ev.IsConfirmed() {
			return false, event.ErrConfirmed
		}

		return s.repo.Deactivate(txCtx, id)
	})
}

// validateReference re-checks the referenced master record inside the same
// transaction as the insert, so a concurrently deactivated or unmanaged
// subject cannot slip into a new item. The KPI-managed flag is re-read here
// rather than trusted from the picker payload.
func (s *MasterItemService) validateReference(ctx context.Context, ref masteritem.Reference) error {
	switch ref.Kind() {
	case masteritem.KindFinancial:
		subjectID, _ := ref.SubjectID()
		subject, err := s.selections.GetSubjectByID(ctx, subjectID)
		if err != nil {
			if errors.Is(err, selection.ErrNotFound) {
				return masteritem.ErrInvalidReference
			}
			return err
		}
		if !subject.IsActive || !subject.IsKpiManaged {
			return masteritem.ErrInvalidReference
		}
	case masteritem.KindNonFinancial:
		definitionID, _ := ref.DefinitionID()
		definition, err := s.selections.GetDefinitionByID(ctx, definitionID)
		if err != nil {
			if errors.Is(err, selection.ErrNotFound) {
				return masteritem.ErrInvalidReference
			}
			return err
		}
		if !definition.IsActive || !definition.IsKpiManaged {
			return masteritem.ErrInvalidReference
		}
	case masteritem.KindMetric:
		metricID, _ := ref.MetricID()
		metric, err := s.selections.GetMetricByID(ctx, metricID)
		if err != nil {
			if errors.Is(err, selection.ErrNotFound) {
				return masteritem.ErrInvalidReference
			}
			return err
		}
		if !metric.IsActive || !metric.IsKpiManaged {
			return masteritem.ErrInvalidReference
		}
	default:
		return masteritem.ErrInvalidKind
	}
	return nil
}

func (s *MasterItemService) validateParent(ctx context.Context, entity masteritem.MasterItem) error {
	if entity.Level() != masteritem.LevelChild {
		return nil
	}

	parent, err := s.repo.GetByID(ctx, *entity.ParentID())
	if err != nil {
		if errors.Is(err, masteritem.ErrNotFound) {
			return masteritem.ErrChildNeedsParent
		}
		return err
	}
	if parent.Level() != masteritem.LevelRoot || !parent.IsActive() {
		return masteritem.ErrInvalidLevel
	}
	if parent.EventID() != entity.EventID() {
		return masteritem.ErrInvalidLevel
	}
	return nil
}
