package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/actionplan"
	"github.com/clearline-hq/clearline/modules/kpi/infrastructure/persistence/models"
	"github.com/clearline-hq/clearline/pkg/composables"
)

const actionPlanFindQuery = `
	SELECT id, tenant_id, item_id, name, department_name, owner_name, due_date, progress_rate
	FROM kpi_action_plans
	WHERE tenant_id = $1 AND item_id = ANY($2::uuid[])
	ORDER BY item_id, due_date ASC NULLS LAST, name ASC`

type ActionPlanRepository struct{}

func NewActionPlanRepository() actionplan.Provider {
	return &ActionPlanRepository{}
}

func (r *ActionPlanRepository) ListSummaries(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]actionplan.Summary, error) {
	out := make(map[uuid.UUID][]actionplan.Summary, len(itemIDs))
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
	rows, err := tx.Query(ctx, actionPlanFindQuery, pgTenantID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list action plans")
	}
	defer rows.Close()

	for rows.Next() {
		var m models.KpiActionPlan
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.ItemID,
			&m.Name,
			&m.DepartmentName,
			&m.OwnerName,
			&m.DueDate,
			&m.ProgressRate,
		); err != nil {
			return nil, err
		}
		if !sameTenant(m.TenantID, tenantUUID) {
			continue
		}
		itemID := uuid.UUID(m.ItemID.Bytes)
		out[itemID] = append(out[itemID], toActionPlanSummary(m))
	}
	return out, rows.Err()
}
