package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/selection"
	"github.com/clearline-hq/clearline/modules/kpi/infrastructure/persistence/models"
	"github.com/clearline-hq/clearline/pkg/composables"
)

const (
	subjectFindQuery    = `SELECT id, tenant_id, code, name, is_kpi_managed, is_active FROM fin_subjects`
	definitionFindQuery = `SELECT id, tenant_id, code, name, unit, is_kpi_managed, is_active FROM nonfin_definitions`
	metricFindQuery     = `SELECT id, tenant_id, code, name, formula, is_kpi_managed, is_active FROM mgmt_metrics`

	// Pickers only offer rows flagged for KPI management.
	managedFilter = ` WHERE tenant_id = $1 AND is_kpi_managed = true AND is_active = true ORDER BY code ASC`
	byIDFilter    = ` WHERE tenant_id = $1 AND id = $2`
)

type SelectionRepository struct{}

func NewSelectionRepository() selection.Repository {
	return &SelectionRepository{}
}

func (r *SelectionRepository) ListSubjects(ctx context.Context) ([]selection.Subject, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, subjectFindQuery+managedFilter, pgTenantID)
	if err != nil {
		return nil, errors.Wrap(err, "list subjects")
	}
	defer rows.Close()

	out := make([]selection.Subject, 0)
	for rows.Next() {
		var m models.FinSubject
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Code, &m.Name, &m.IsKpiManaged, &m.IsActive); err != nil {
			return nil, err
		}
		if !sameTenant(m.TenantID, tenantUUID) {
			continue
		}
		out = append(out, toDomainSubject(m))
	}
	return out, rows.Err()
}

func (r *SelectionRepository) ListDefinitions(ctx context.Context) ([]selection.Definition, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, definitionFindQuery+managedFilter, pgTenantID)
	if err != nil {
		return nil, errors.Wrap(err, "list definitions")
	}
	defer rows.Close()

	out := make([]selection.Definition, 0)
	for rows.Next() {
		var m models.NonFinDefinition
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Code, &m.Name, &m.Unit, &m.IsKpiManaged, &m.IsActive); err != nil {
			return nil, err
		}
		if !sameTenant(m.TenantID, tenantUUID) {
			continue
		}
		out = append(out, toDomainDefinition(m))
	}
	return out, rows.Err()
}

func (r *SelectionRepository) ListMetrics(ctx context.Context) ([]selection.Metric, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, metricFindQuery+managedFilter, pgTenantID)
	if err != nil {
		return nil, errors.Wrap(err, "list metrics")
	}
	defer rows.Close()

	out := make([]selection.Metric, 0)
	for rows.Next() {
		var m models.MgmtMetric
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Code, &m.Name, &m.Formula, &m.IsKpiManaged, &m.IsActive); err != nil {
			return nil, err
		}
		if !sameTenant(m.TenantID, tenantUUID) {
			continue
		}
		out = append(out, toDomainMetric(m))
	}
	return out, rows.Err()
}

func (r *SelectionRepository) GetSubjectByID(ctx context.Context, id uuid.UUID) (selection.Subject, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return selection.Subject{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return selection.Subject{}, err
	}

	var m models.FinSubject
	err = tx.QueryRow(ctx, subjectFindQuery+byIDFilter, pgTenantID, pgUUID(id)).
		Scan(&m.ID, &m.TenantID, &m.Code, &m.Name, &m.IsKpiManaged, &m.IsActive)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return selection.Subject{}, selection.ErrNotFound
		}
		return selection.Subject{}, err
	}
	if !sameTenant(m.TenantID, tenantUUID) {
		return selection.Subject{}, selection.ErrNotFound
	}
	return toDomainSubject(m), nil
}

func (r *SelectionRepository) GetDefinitionByID(ctx context.Context, id uuid.UUID) (selection.Definition, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return selection.Definition{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return selection.Definition{}, err
	}

	var m models.NonFinDefinition
	err = tx.QueryRow(ctx, definitionFindQuery+byIDFilter, pgTenantID, pgUUID(id)).
		Scan(&m.ID, &m.TenantID, &m.Code, &m.Name, &m.Unit, &m.IsKpiManaged, &m.IsActive)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return selection.Definition{}, selection.ErrNotFound
		}
		return selection.Definition{}, err
	}
	if !sameTenant(m.TenantID, tenantUUID) {
		return selection.Definition{}, selection.ErrNotFound
	}
	return toDomainDefinition(m), nil
}

func (r *SelectionRepository) GetMetricByID(ctx context.Context, id uuid.UUID) (selection.Metric, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return selection.Metric{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return selection.Metric{}, err
	}

	var m models.MgmtMetric
	err = tx.QueryRow(ctx, metricFindQuery+byIDFilter, pgTenantID, pgUUID(id)).
		Scan(&m.ID, &m.TenantID, &m.Code, &m.Name, &m.Formula, &m.IsKpiManaged, &m.IsActive)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return selection.Metric{}, selection.ErrNotFound
		}
		return selection.Metric{}, err
	}
	if !sameTenant(m.TenantID, tenantUUID) {
		return selection.Metric{}, selection.ErrNotFound
	}
	return toDomainMetric(m), nil
}

func sameTenant(v pgtype.UUID, tenantUUID uuid.UUID) bool {
	return v.Valid && v.Bytes == tenantUUID
}
