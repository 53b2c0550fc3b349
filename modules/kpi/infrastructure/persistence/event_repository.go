package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/infrastructure/persistence/models"
	"github.com/clearline-hq/clearline/pkg/composables"
)

const (
	eventFindQuery = `
	SELECT id, tenant_id, company_id, code, name, fiscal_year, status, created_at, updated_at
	FROM kpi_events`

	eventInsertQuery = `
	INSERT INTO kpi_events (tenant_id, company_id, code, name, fiscal_year, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, tenant_id, company_id, code, name, fiscal_year, status, created_at, updated_at`

	eventConfirmQuery = `
	UPDATE kpi_events
	SET status = 'confirmed', updated_at = now()
	WHERE tenant_id = $1 AND id = $2 AND status = 'draft'`
)

type EventRepository struct{}

func NewEventRepository() event.Repository {
	return &EventRepository{}
}

func (r *EventRepository) GetPaginated(ctx context.Context, params *event.FindParams) ([]event.Event, int64, error) {
	if params == nil {
		params = &event.FindParams{}
	}

	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, 0, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := " WHERE tenant_id = $1"
	args := []any{pgTenantID}
	if params.CompanyID != nil {
		args = append(args, pgUUID(*params.CompanyID))
		where += pgPlaceholder(" AND company_id = ", len(args))
	}
	if params.FiscalYear != nil {
		args = append(args, *params.FiscalYear)
		where += pgPlaceholder(" AND fiscal_year = ", len(args))
	}

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM kpi_events"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count events")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := eventFindQuery + where +
		" ORDER BY fiscal_year DESC, code ASC" +
		pgPlaceholder(" LIMIT ", len(args)-1) +
		pgPlaceholder(" OFFSET ", len(args))

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list events")
	}
	defer rows.Close()

	out := make([]event.Event, 0, limit)
	for rows.Next() {
		m, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		if !m.TenantID.Valid || m.TenantID.Bytes != tenantUUID {
			continue
		}
		out = append(out, toDomainEvent(m))
	}
	return out, total, rows.Err()
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (event.Event, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return event.Event{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return event.Event{}, err
	}

	row := tx.QueryRow(ctx, eventFindQuery+" WHERE tenant_id = $1 AND id = $2", pgTenantID, pgUUID(id))
	m, err := scanEvent(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}
	if !m.TenantID.Valid || m.TenantID.Bytes != tenantUUID {
		return event.Event{}, event.ErrNotFound
	}
	return toDomainEvent(m), nil
}

func (r *EventRepository) Create(ctx context.Context, data event.Event) (event.Event, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return event.Event{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return event.Event{}, err
	}

	row := tx.QueryRow(
		ctx,
		eventInsertQuery,
		pgTenantID,
		pgUUID(data.CompanyID()),
		data.Code(),
		data.Name(),
		data.FiscalYear(),
		string(data.Status()),
	)
	m, err := scanEvent(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return event.Event{}, event.ErrDuplicateCode
		}
		return event.Event{}, errors.Wrap(err, "insert event")
	}
	return toDomainEvent(m), nil
}

// Confirm flips a draft event to confirmed. Confirming an already confirmed
// event is a no-op that returns the current row.
func (r *EventRepository) Confirm(ctx context.Context, id uuid.UUID) (event.Event, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return event.Event{}, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return event.Event{}, err
	}

	if _, err := tx.Exec(ctx, eventConfirmQuery, pgTenantID, pgUUID(id)); err != nil {
		return event.Event{}, errors.Wrap(err, "confirm event")
	}
	return r.GetByID(ctx, id)
}

type pgScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row pgScanner) (models.KpiEvent, error) {
	var m models.KpiEvent
	err := row.Scan(
		&m.ID,
		&m.TenantID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.FiscalYear,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}
