package event_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
)

func TestNew_StartsAsDraft(t *testing.T) {
	t.Parallel()

	e := event.New(uuid.New(), uuid.New(), "  FY26-MAIN ", " FY2026 plan ", 2026)

	assert.Equal(t, event.StatusDraft, e.Status())
	assert.False(t, e.IsConfirmed())
	assert.Equal(t, "FY26-MAIN", e.Code())
	assert.Equal(t, "FY2026 plan", e.Name())
	assert.Equal(t, 2026, e.FiscalYear())
}

func TestConfirm_IsOneWay(t *testing.T) {
	t.Parallel()

	e := event.New(uuid.New(), uuid.New(), "FY26", "plan", 2026)

	confirmed := e.Confirm()
	require.True(t, confirmed.IsConfirmed())

	again := confirmed.Confirm()
	assert.True(t, again.IsConfirmed())
	assert.Equal(t, confirmed.Status(), again.Status())
}

func TestCreateDTO_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		dto := &event.CreateDTO{
			CompanyID:  uuid.New(),
			Code:       "FY26",
			Name:       "plan",
			FiscalYear: 2026,
		}
		dto.Normalize()
		assert.Empty(t, dto.Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		dto := &event.CreateDTO{FiscalYear: 2026}
		errs := dto.Validate()
		assert.Contains(t, errs, "companyId")
		assert.Contains(t, errs, "code")
		assert.Contains(t, errs, "name")
	})

	t.Run("fiscal year out of range", func(t *testing.T) {
		t.Parallel()
		dto := &event.CreateDTO{
			CompanyID:  uuid.New(),
			Code:       "FY26",
			Name:       "plan",
			FiscalYear: 99999,
		}
		errs := dto.Validate()
		assert.Contains(t, errs, "fiscalYear")
	})
}
