package persistence

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/modules/kpi/infrastructure/persistence/models"
	"github.com/clearline-hq/clearline/pkg/composables"
)

const (
	factFindQuery = `
	SELECT id, tenant_id, item_id, period_code, period_start, period_end,
	       target_value, actual_value, department_id, notes,
	       created_by, updated_by, created_at, updated_at
	FROM kpi_facts`

	factInsertQuery = `
	INSERT INTO kpi_facts (
		tenant_id, item_id, period_code, period_start, period_end,
		target_value, actual_value, department_id, notes, created_by, updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id`
)

type FactRepository struct{}

func NewFactRepository() fact.Repository {
	return &FactRepository{}
}

func (r *FactRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]fact.Fact, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := factFindQuery + " WHERE tenant_id = $1 AND item_id = $2 ORDER BY period_code ASC"
	rows, err := tx.Query(ctx, query, pgTenantID, pgUUID(itemID))
	if err != nil {
		return nil, errors.Wrap(err, "list facts")
	}
	defer rows.Close()

	return collectFacts(rows, tenantUUID)
}

func (r *FactRepository) ListByItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]fact.Fact, error) {
	out := make(map[uuid.UUID][]fact.Fact, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = id.String()
	}
	query := factFindQuery + " WHERE tenant_id = $1 AND item_id = ANY($2::uuid[]) ORDER BY item_id, period_code ASC"
	rows, err := tx.Query(ctx, query, pgTenantID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list facts by items")
	}
	defer rows.Close()

	facts, err := collectFacts(rows, tenantUUID)
	if err != nil {
		return nil, err
	}
	for _, f := range facts {
		out[f.ItemID()] = append(out[f.ItemID()], f)
	}
	return out, nil
}

func (r *FactRepository) GetByID(ctx context.Context, id uuid.UUID) (fact.Fact, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return fact.Fact{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return fact.Fact{}, err
	}

	row := tx.QueryRow(ctx, factFindQuery+" WHERE tenant_id = $1 AND id = $2", pgTenantID, pgUUID(id))
	m, err := scanFact(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return fact.Fact{}, fact.ErrNotFound
		}
		return fact.Fact{}, err
	}
	if !m.TenantID.Valid || m.TenantID.Bytes != tenantUUID {
		return fact.Fact{}, fact.ErrNotFound
	}
	return toDomainFact(m), nil
}

func (r *FactRepository) Create(ctx context.Context, data fact.Fact) (fact.Fact, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return fact.Fact{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return fact.Fact{}, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		factInsertQuery,
		pgTenantID,
		pgUUID(data.ItemID()),
		data.PeriodCode(),
		pgNullableDate(data.PeriodStart()),
		pgNullableDate(data.PeriodEnd()),
		pgNullableNumeric(data.Target()),
		pgNullableNumeric(data.Actual()),
		pgNullableUUID(data.DepartmentID()),
		data.Notes(),
		data.CreatedBy(),
		data.UpdatedBy(),
	).Scan(&idStr); err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fact.Fact{}, fact.ErrPeriodTaken
		}
		return fact.Fact{}, errors.Wrap(err, "insert fact")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return fact.Fact{}, errors.Wrap(err, "parse inserted fact id")
	}
	return r.GetByID(ctx, id)
}

func (r *FactRepository) Update(ctx context.Context, id uuid.UUID, patch fact.UpdatePatch) (fact.Fact, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return fact.Fact{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return fact.Fact{}, err
	}

	set := []string{"updated_at = now()"}
	args := []any{pgTenantID, pgUUID(id)}
	if patch.Target.Set {
		args = append(args, pgNullableNumeric(patch.Target.Value))
		set = append(set, pgPlaceholder("target_value = ", len(args)))
	}
	if patch.Actual.Set {
		args = append(args, pgNullableNumeric(patch.Actual.Value))
		set = append(set, pgPlaceholder("actual_value = ", len(args)))
	}
	if patch.PeriodStart.Set {
		args = append(args, pgNullableDate(patch.PeriodStart.Value))
		set = append(set, pgPlaceholder("period_start = ", len(args)))
	}
	if patch.PeriodEnd.Set {
		args = append(args, pgNullableDate(patch.PeriodEnd.Value))
		set = append(set, pgPlaceholder("period_end = ", len(args)))
	}
	if patch.DepartmentID.Set {
		args = append(args, pgNullableUUID(patch.DepartmentID.Value))
		set = append(set, pgPlaceholder("department_id = ", len(args)))
	}
	if patch.Notes != nil {
		args = append(args, *patch.Notes)
		set = append(set, pgPlaceholder("notes = ", len(args)))
	}
	if patch.UpdatedBy != nil {
		args = append(args, *patch.UpdatedBy)
		set = append(set, pgPlaceholder("updated_by = ", len(args)))
	}

	query := "UPDATE kpi_facts SET " + strings.Join(set, ", ") +
		" WHERE tenant_id = $1 AND id = $2"
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fact.Fact{}, errors.Wrap(err, "update fact")
	}
	if tag.RowsAffected() == 0 {
		return fact.Fact{}, fact.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func collectFacts(rows pgx.Rows, tenantUUID uuid.UUID) ([]fact.Fact, error) {
	out := make([]fact.Fact, 0)
	for rows.Next() {
		m, err := scanFact(rows)
		if err != nil {
			return nil, err
		}
		if !m.TenantID.Valid || m.TenantID.Bytes != tenantUUID {
			continue
		}
		out = append(out, toDomainFact(m))
	}
	return out, rows.Err()
}

func scanFact(row pgScanner) (models.KpiFact, error) {
	var m models.KpiFact
	err := row.Scan(
		&m.ID,
		&m.TenantID,
		&m.ItemID,
		&m.PeriodCode,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.TargetValue,
		&m.ActualValue,
		&m.DepartmentID,
		&m.Notes,
		&m.CreatedBy,
		&m.UpdatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}
