package masteritem_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
)

func TestReference_SingleTarget(t *testing.T) {
	t.Parallel()

	subjectID := uuid.New()
	ref := masteritem.FinancialRef(subjectID)

	got, ok := ref.SubjectID()
	require.True(t, ok)
	assert.Equal(t, subjectID, got)

	_, ok = ref.DefinitionID()
	assert.False(t, ok)
	_, ok = ref.MetricID()
	assert.False(t, ok)
	assert.Equal(t, subjectID, ref.TargetID())
}

func TestReference_KindMatchesConstructor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, masteritem.KindFinancial, masteritem.FinancialRef(uuid.New()).Kind())
	assert.Equal(t, masteritem.KindNonFinancial, masteritem.NonFinancialRef(uuid.New()).Kind())
	assert.Equal(t, masteritem.KindMetric, masteritem.MetricRef(uuid.New()).Kind())
	assert.True(t, masteritem.Reference{}.IsZero())
}

func TestNew_LevelParentRules(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	eventID := uuid.New()
	ref := masteritem.MetricRef(uuid.New())
	parentID := uuid.New()

	t.Run("root with parent rejected", func(t *testing.T) {
		t.Parallel()
		_, err := masteritem.New(tenantID, eventID, &parentID, "K1", "Revenue", ref, masteritem.LevelRoot, 1)
		assert.ErrorIs(t, err, masteritem.ErrRootHasParent)
	})

	t.Run("child without parent rejected", func(t *testing.T) {
		t.Parallel()
		_, err := masteritem.New(tenantID, eventID, nil, "K1-1", "New sales", ref, masteritem.LevelChild, 1)
		assert.ErrorIs(t, err, masteritem.ErrChildNeedsParent)
	})

	t.Run("level outside 1..2 rejected", func(t *testing.T) {
		t.Parallel()
		_, err := masteritem.New(tenantID, eventID, nil, "K1", "Revenue", ref, 3, 1)
		assert.ErrorIs(t, err, masteritem.ErrInvalidLevel)
	})

	t.Run("zero reference rejected", func(t *testing.T) {
		t.Parallel()
		_, err := masteritem.New(tenantID, eventID, nil, "K1", "Revenue", masteritem.Reference{}, masteritem.LevelRoot, 1)
		assert.ErrorIs(t, err, masteritem.ErrInvalidKind)
	})

	t.Run("valid child", func(t *testing.T) {
		t.Parallel()
		item, err := masteritem.New(tenantID, eventID, &parentID, "K1-1", "New sales", ref, masteritem.LevelChild, 2)
		require.NoError(t, err)
		require.NotNil(t, item.ParentID())
		assert.Equal(t, parentID, *item.ParentID())
		assert.True(t, item.IsActive())
	})
}

func TestNew_SortOrderDefaultsToOne(t *testing.T) {
	t.Parallel()

	item, err := masteritem.New(uuid.New(), uuid.New(), nil, "K1", "Revenue", masteritem.FinancialRef(uuid.New()), masteritem.LevelRoot, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, item.SortOrder())
}

func TestDeactivate_IsTerminal(t *testing.T) {
	t.Parallel()

	item, err := masteritem.New(uuid.New(), uuid.New(), nil, "K1", "Revenue", masteritem.FinancialRef(uuid.New()), masteritem.LevelRoot, 1)
	require.NoError(t, err)

	deactivated, changed := item.Deactivate()
	require.True(t, changed)
	assert.False(t, deactivated.IsActive())

	same, changed := deactivated.Deactivate()
	assert.False(t, changed)
	assert.False(t, same.IsActive())
}

func TestCreateDTO_Validate_ReferenceIDs(t *testing.T) {
	t.Parallel()

	subjectID := uuid.New()
	metricID := uuid.New()

	valid := func() *masteritem.CreateDTO {
		return &masteritem.CreateDTO{
			EventID:   uuid.New(),
			Code:      "K1",
			Name:      "Revenue",
			Kind:      masteritem.KindFinancial,
			SubjectID: &subjectID,
			Level:     masteritem.LevelRoot,
		}
	}

	t.Run("kind-matched id passes", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, valid().Validate())
	})

	t.Run("surplus id rejected", func(t *testing.T) {
		t.Parallel()
		dto := valid()
		dto.MetricID = &metricID
		errs := dto.Validate()
		require.Contains(t, errs, "metricId")
	})

	t.Run("missing kind-matched id rejected", func(t *testing.T) {
		t.Parallel()
		dto := valid()
		dto.SubjectID = nil
		errs := dto.Validate()
		require.Contains(t, errs, "subjectId")
	})
}

func TestCreateDTO_Reference(t *testing.T) {
	t.Parallel()

	subjectID := uuid.New()

	t.Run("financial uses subject id", func(t *testing.T) {
		t.Parallel()
		dto := &masteritem.CreateDTO{Kind: masteritem.KindFinancial, SubjectID: &subjectID}
		ref := dto.Reference()
		require.False(t, ref.IsZero())
		got, ok := ref.SubjectID()
		require.True(t, ok)
		assert.Equal(t, subjectID, got)
	})

	t.Run("mismatched id yields zero reference", func(t *testing.T) {
		t.Parallel()
		dto := &masteritem.CreateDTO{Kind: masteritem.KindMetric, SubjectID: &subjectID}
		assert.True(t, dto.Reference().IsZero())
	})
}
