package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-hq/clearline/modules/kpi/infrastructure/persistence/models"
)

// masterItemRows replays canned item rows through the pgx.Rows surface so
// the scan path can be driven without a database.
type masterItemRows struct {
	rows []models.KpiMasterItem
	idx  int
}

func (r *masterItemRows) Close()                                       {}
func (r *masterItemRows) Err() error                                   { return nil }
func (r *masterItemRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *masterItemRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *masterItemRows) Values() ([]any, error)                       { return nil, nil }
func (r *masterItemRows) RawValues() [][]byte                          { return nil }
func (r *masterItemRows) Conn() *pgx.Conn                              { return nil }

func (r *masterItemRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *masterItemRows) Scan(dest ...any) error {
	m := r.rows[r.idx-1]
	*dest[0].(*pgtype.UUID) = m.ID
	*dest[1].(*pgtype.UUID) = m.TenantID
	*dest[2].(*pgtype.UUID) = m.EventID
	*dest[3].(*pgtype.UUID) = m.ParentID
	*dest[4].(*string) = m.Code
	*dest[5].(*string) = m.Name
	*dest[6].(*string) = m.Kind
	*dest[7].(*pgtype.UUID) = m.SubjectID
	*dest[8].(*pgtype.UUID) = m.DefinitionID
	*dest[9].(*pgtype.UUID) = m.MetricID
	*dest[10].(*int) = m.Level
	*dest[11].(*pgtype.UUID) = m.DepartmentID
	*dest[12].(*pgtype.UUID) = m.OwnerEmployeeID
	*dest[13].(*int) = m.SortOrder
	*dest[14].(*bool) = m.IsActive
	*dest[15].(*time.Time) = m.CreatedAt
	*dest[16].(*time.Time) = m.UpdatedAt
	return nil
}

func financialItemRow(tenantID uuid.UUID, code string) models.KpiMasterItem {
	now := time.Now()
	return models.KpiMasterItem{
		ID:        pgUUID(uuid.New()),
		TenantID:  pgUUID(tenantID),
		EventID:   pgUUID(uuid.New()),
		Code:      code,
		Name:      "Revenue",
		Kind:      "financial",
		SubjectID: pgUUID(uuid.New()),
		Level:     1,
		SortOrder: 1,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Even with the RLS policies and the SQL predicate out of the picture, a row
// from another tenant must never reach the caller.
func TestCollectMasterItems_DropsForeignTenantRows(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	ours := financialItemRow(tenantID, "K1")
	foreign := financialItemRow(uuid.New(), "K2")

	items, err := collectMasterItems(&masterItemRows{rows: []models.KpiMasterItem{ours, foreign}}, tenantID)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "K1", items[0].Code())
	assert.Equal(t, tenantID, items[0].TenantID())
}

func TestCollectMasterItems_InvalidTenantColumnDropsRow(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	row := financialItemRow(tenantID, "K1")
	row.TenantID = pgtype.UUID{}

	items, err := collectMasterItems(&masterItemRows{rows: []models.KpiMasterItem{row}}, tenantID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
