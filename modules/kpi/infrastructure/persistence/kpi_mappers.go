package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/actionplan"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/selection"
	"github.com/clearline-hq/clearline/modules/kpi/infrastructure/persistence/models"
)

func toDomainEvent(m models.KpiEvent) event.Event {
	return event.Hydrate(
		uuid.UUID(m.ID.Bytes),
		uuid.UUID(m.TenantID.Bytes),
		uuid.UUID(m.CompanyID.Bytes),
		m.Code,
		m.Name,
		m.FiscalYear,
		event.Status(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainMasterItem(m models.KpiMasterItem) (masteritem.MasterItem, error) {
	var ref masteritem.Reference
	switch masteritem.Kind(m.Kind) {
	case masteritem.KindFinancial:
		if !m.SubjectID.Valid {
			return masteritem.MasterItem{}, errors.Errorf("item %s: financial row without subject_id", uuid.UUID(m.ID.Bytes))
		}
		ref = masteritem.FinancialRef(uuid.UUID(m.SubjectID.Bytes))
	case masteritem.KindNonFinancial:
		if !m.DefinitionID.Valid {
			return masteritem.MasterItem{}, errors.Errorf("item %s: non-financial row without definition_id", uuid.UUID(m.ID.Bytes))
		}
		ref = masteritem.NonFinancialRef(uuid.UUID(m.DefinitionID.Bytes))
	case masteritem.KindMetric:
		if !m.MetricID.Valid {
			return masteritem.MasterItem{}, errors.Errorf("item %s: metric row without metric_id", uuid.UUID(m.ID.Bytes))
		}
		ref = masteritem.MetricRef(uuid.UUID(m.MetricID.Bytes))
	default:
		return masteritem.MasterItem{}, errors.Errorf("item %s: unknown kind %q", uuid.UUID(m.ID.Bytes), m.Kind)
	}

	return masteritem.Hydrate(
		uuid.UUID(m.ID.Bytes),
		uuid.UUID(m.TenantID.Bytes),
		uuid.UUID(m.EventID.Bytes),
		nullableUUID(m.ParentID),
		m.Code,
		m.Name,
		ref,
		m.Level,
		nullableUUID(m.DepartmentID),
		nullableUUID(m.OwnerEmployeeID),
		m.SortOrder,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainFact(m models.KpiFact) fact.Fact {
	return fact.Hydrate(
		uuid.UUID(m.ID.Bytes),
		uuid.UUID(m.TenantID.Bytes),
		uuid.UUID(m.ItemID.Bytes),
		m.PeriodCode,
		nullableDate(m.PeriodStart),
		nullableDate(m.PeriodEnd),
		nullableDecimal(m.TargetValue),
		nullableDecimal(m.ActualValue),
		nullableUUID(m.DepartmentID),
		m.Notes,
		m.CreatedBy,
		m.UpdatedBy,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toActionPlanSummary(m models.KpiActionPlan) actionplan.Summary {
	return actionplan.Summary{
		ID:             uuid.UUID(m.ID.Bytes),
		Name:           m.Name,
		DepartmentName: m.DepartmentName,
		OwnerName:      m.OwnerName,
		DueDate:        nullableDate(m.DueDate),
		ProgressRate:   numericDecimal(m.ProgressRate),
	}
}

func toDomainSubject(m models.FinSubject) selection.Subject {
	return selection.Subject{
		ID:           uuid.UUID(m.ID.Bytes),
		TenantID:     uuid.UUID(m.TenantID.Bytes),
		Code:         m.Code,
		Name:         m.Name,
		IsKpiManaged: m.IsKpiManaged,
		IsActive:     m.IsActive,
	}
}

func toDomainDefinition(m models.NonFinDefinition) selection.Definition {
	return selection.Definition{
		ID:           uuid.UUID(m.ID.Bytes),
		TenantID:     uuid.UUID(m.TenantID.Bytes),
		Code:         m.Code,
		Name:         m.Name,
		Unit:         m.Unit,
		IsKpiManaged: m.IsKpiManaged,
		IsActive:     m.IsActive,
	}
}

func toDomainMetric(m models.MgmtMetric) selection.Metric {
	return selection.Metric{
		ID:           uuid.UUID(m.ID.Bytes),
		TenantID:     uuid.UUID(m.TenantID.Bytes),
		Code:         m.Code,
		Name:         m.Name,
		Formula:      m.Formula,
		IsKpiManaged: m.IsKpiManaged,
		IsActive:     m.IsActive,
	}
}
