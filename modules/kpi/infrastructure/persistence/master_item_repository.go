package persistence

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/infrastructure/persistence/models"
	"github.com/clearline-hq/clearline/pkg/composables"
)

const (
	masterItemFindQuery = `
	SELECT id, tenant_id, event_id, parent_id, code, name, kind,
	       subject_id, definition_id, metric_id, level,
	       department_id, owner_employee_id, sort_order, is_active,
	       created_at, updated_at
	FROM kpi_master_items`

	masterItemInsertQuery = `
	INSERT INTO kpi_master_items (
		tenant_id, event_id, parent_id, code, name, kind,
		subject_id, definition_id, metric_id, level,
		department_id, owner_employee_id, sort_order, is_active
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id`

	masterItemDeactivateQuery = `
	UPDATE kpi_master_items
	SET is_active = false, updated_at = now()
	WHERE tenant_id = $1 AND id = $2 AND is_active = true`
)

// sortColumns maps API sort fields to real columns. Anything outside the map
// falls back to sort order.
var sortColumns = map[string]string{
	masteritem.SortByCode:      "code",
	masteritem.SortByName:      "name",
	masteritem.SortBySortOrder: "sort_order",
	masteritem.SortByCreatedAt: "created_at",
}

type MasterItemRepository struct{}

func NewMasterItemRepository() masteritem.Repository {
	return &MasterItemRepository{}
}

func (r *MasterItemRepository) List(ctx context.Context, params *masteritem.FindParams) ([]masteritem.MasterItem, int64, error) {
	if params == nil {
		params = &masteritem.FindParams{}
	}

	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, 0, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"tenant_id = $1"}
	args := []any{pgTenantID}
	if params.EventID != uuid.Nil {
		args = append(args, pgUUID(params.EventID))
		where = append(where, pgPlaceholder("event_id = ", len(args)))
	}
	if params.ParentID != nil {
		args = append(args, pgNullableUUID(params.ParentID))
		where = append(where, pgPlaceholder("parent_id = ", len(args)))
	}
	if params.Kind != nil {
		args = append(args, string(*params.Kind))
		where = append(where, pgPlaceholder("kind = ", len(args)))
	}
	if params.Level != nil {
		args = append(args, *params.Level)
		where = append(where, pgPlaceholder("level = ", len(args)))
	}
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		args = append(args, "%"+keyword+"%")
		n := len(args)
		where = append(where, "("+pgPlaceholder("code ILIKE ", n)+pgPlaceholder(" OR name ILIKE ", n)+")")
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM kpi_master_items"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count master items")
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "sort_order"
	}
	direction := " ASC"
	if params.SortDesc {
		direction = " DESC"
	}
	orderBy := " ORDER BY " + column + direction + ", code ASC"

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := masterItemFindQuery + whereClause + orderBy +
		pgPlaceholder(" LIMIT ", len(args)-1) +
		pgPlaceholder(" OFFSET ", len(args))

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list master items")
	}
	defer rows.Close()

	items, err := collectMasterItems(rows, tenantUUID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListActiveByEvent returns every active item of one event without paging;
// aggregation walks the full tree.
func (r *MasterItemRepository) ListActiveByEvent(ctx context.Context, eventID uuid.UUID) ([]masteritem.MasterItem, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := masterItemFindQuery +
		" WHERE tenant_id = $1 AND event_id = $2 AND is_active = true" +
		" ORDER BY level ASC, sort_order ASC, code ASC"
	rows, err := tx.Query(ctx, query, pgTenantID, pgUUID(eventID))
	if err != nil {
		return nil, errors.Wrap(err, "list active master items")
	}
	defer rows.Close()

	return collectMasterItems(rows, tenantUUID)
}

func (r *MasterItemRepository) GetByID(ctx context.Context, id uuid.UUID) (masteritem.MasterItem, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return masteritem.MasterItem{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return masteritem.MasterItem{}, err
	}

	row := tx.QueryRow(ctx, masterItemFindQuery+" WHERE tenant_id = $1 AND id = $2 AND is_active = true", pgTenantID, pgUUID(id))
	m, err := scanMasterItem(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return masteritem.MasterItem{}, masteritem.ErrNotFound
		}
		return masteritem.MasterItem{}, err
	}
	if !m.TenantID.Valid || m.TenantID.Bytes != tenantUUID {
		return masteritem.MasterItem{}, masteritem.ErrNotFound
	}
	return toDomainMasterItem(m)
}

func (r *MasterItemRepository) Create(ctx context.Context, data masteritem.MasterItem) (masteritem.MasterItem, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return masteritem.MasterItem{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return masteritem.MasterItem{}, err
	}

	ref := data.Ref()
	subjectID, _ := ref.SubjectID()
	definitionID, _ := ref.DefinitionID()
	metricID, _ := ref.MetricID()

	var idStr string
	if err := tx.QueryRow(
		ctx,
		masterItemInsertQuery,
		pgTenantID,
		pgUUID(data.EventID()),
		pgNullableUUID(data.ParentID()),
		data.Code(),
		data.Name(),
		string(ref.Kind()),
		pgNullableUUID(nilIfZero(subjectID)),
		pgNullableUUID(nilIfZero(definitionID)),
		pgNullableUUID(nilIfZero(metricID)),
		data.Level(),
		pgNullableUUID(data.DepartmentID()),
		pgNullableUUID(data.OwnerEmployeeID()),
		data.SortOrder(),
		data.IsActive(),
	).Scan(&idStr); err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return masteritem.MasterItem{}, masteritem.ErrDuplicateCode
		}
		return masteritem.MasterItem{}, errors.Wrap(err, "insert master item")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return masteritem.MasterItem{}, errors.Wrap(err, "parse inserted item id")
	}
	return r.GetByID(ctx, id)
}

func (r *MasterItemRepository) Update(ctx context.Context, id uuid.UUID, patch *masteritem.UpdatePatch) (masteritem.MasterItem, error) {
	if patch == nil {
		return r.GetByID(ctx, id)
	}

	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return masteritem.MasterItem{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return masteritem.MasterItem{}, err
	}

	set := []string{"updated_at = now()"}
	args := []any{pgTenantID, pgUUID(id)}
	if patch.Name != nil {
		args = append(args, strings.TrimSpace(*patch.Name))
		set = append(set, pgPlaceholder("name = ", len(args)))
	}
	if patch.DepartmentID.Set {
		args = append(args, pgNullableUUID(patch.DepartmentID.Value))
		set = append(set, pgPlaceholder("department_id = ", len(args)))
	}
	if patch.OwnerEmployeeID.Set {
		args = append(args, pgNullableUUID(patch.OwnerEmployeeID.Value))
		set = append(set, pgPlaceholder("owner_employee_id = ", len(args)))
	}
	if patch.SortOrder != nil {
		args = append(args, *patch.SortOrder)
		set = append(set, pgPlaceholder("sort_order = ", len(args)))
	}

	query := "UPDATE kpi_master_items SET " + strings.Join(set, ", ") +
		" WHERE tenant_id = $1 AND id = $2 AND is_active = true"
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return masteritem.MasterItem{}, errors.Wrap(err, "update master item")
	}
	if tag.RowsAffected() == 0 {
		return masteritem.MasterItem{}, masteritem.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Deactivate reports whether this call flipped the row. A second call on the
// same item, or a call on an unknown id, returns (false, nil).
func (r *MasterItemRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return false, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, masterItemDeactivateQuery, pgTenantID, pgUUID(id))
	if err != nil {
		return false, errors.Wrap(err, "deactivate master item")
	}
	return tag.RowsAffected() > 0, nil
}

func collectMasterItems(rows pgx.Rows, tenantUUID uuid.UUID) ([]masteritem.MasterItem, error) {
	out := make([]masteritem.MasterItem, 0)
	for rows.Next() {
		m, err := scanMasterItem(rows)
		if err != nil {
			return nil, err
		}
		if !m.TenantID.Valid || m.TenantID.Bytes != tenantUUID {
			continue
		}
		item, err := toDomainMasterItem(m)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanMasterItem(row pgScanner) (models.KpiMasterItem, error) {
	var m models.KpiMasterItem
	err := row.Scan(
		&m.ID,
		&m.TenantID,
		&m.EventID,
		&m.ParentID,
		&m.Code,
		&m.Name,
		&m.Kind,
		&m.SubjectID,
		&m.DefinitionID,
		&m.MetricID,
		&m.Level,
		&m.DepartmentID,
		&m.OwnerEmployeeID,
		&m.SortOrder,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func nilIfZero(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
