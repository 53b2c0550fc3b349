package fact

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clearline-hq/clearline/pkg/serrors"
)

var (
	ErrNotFound    = serrors.NewError("KPI_FACT_NOT_FOUND", "fact row not found")
	ErrPeriodTaken = serrors.NewFieldError("KPI_FACT_PERIOD_TAKEN", "periodCode", "a fact row already exists for this item and period")
)

var hundred = decimal.NewFromInt(100)

// Fact is one period's target/actual pair attached to a master item. Target
// and actual are independently nullable.
type Fact struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	itemID       uuid.UUID
	periodCode   string
	periodStart  *time.Time
	periodEnd    *time.Time
	target       *decimal.Decimal
	actual       *decimal.Decimal
	departmentID *uuid.UUID
	notes        string
	createdBy    string
	updatedBy    string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(
	tenantID uuid.UUID,
	itemID uuid.UUID,
	periodCode string,
	target *decimal.Decimal,
	actual *decimal.Decimal,
) Fact {
	return Fact{
		tenantID:   tenantID,
		itemID:     itemID,
		periodCode: strings.TrimSpace(periodCode),
		target:     target,
		actual:     actual,
	}
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	itemID uuid.UUID,
	periodCode string,
	periodStart *time.Time,
	periodEnd *time.Time,
	target *decimal.Decimal,
	actual *decimal.Decimal,
	departmentID *uuid.UUID,
	notes string,
	createdBy string,
	updatedBy string,
	createdAt time.Time,
	updatedAt time.Time,
) Fact {
	return Fact{
		id:           id,
		tenantID:     tenantID,
		itemID:       itemID,
		periodCode:   periodCode,
		periodStart:  periodStart,
		periodEnd:    periodEnd,
		target:       target,
		actual:       actual,
		departmentID: departmentID,
		notes:        notes,
		createdBy:    createdBy,
		updatedBy:    updatedBy,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (f Fact) ID() uuid.UUID              { return f.id }
func (f Fact) TenantID() uuid.UUID        { return f.tenantID }
func (f Fact) ItemID() uuid.UUID          { return f.itemID }
func (f Fact) PeriodCode() string         { return f.periodCode }
func (f Fact) PeriodStart() *time.Time    { return f.periodStart }
func (f Fact) PeriodEnd() *time.Time      { return f.periodEnd }
func (f Fact) Target() *decimal.Decimal   { return f.target }
func (f Fact) Actual() *decimal.Decimal   { return f.actual }
func (f Fact) DepartmentID() *uuid.UUID   { return f.departmentID }
func (f Fact) Notes() string              { return f.notes }
func (f Fact) CreatedBy() string          { return f.createdBy }
func (f Fact) UpdatedBy() string          { return f.updatedBy }
func (f Fact) CreatedAt() time.Time       { return f.createdAt }
func (f Fact) UpdatedAt() time.Time       { return f.updatedAt }
func (f Fact) IsZero() bool               { return f.id == uuid.Nil && f.periodCode == "" }

func (f Fact) WithPeriod(start, end *time.Time) Fact {
	f.periodStart = start
	f.periodEnd = end
	return f
}

func (f Fact) WithDepartmentID(departmentID *uuid.UUID) Fact {
	f.departmentID = departmentID
	return f
}

func (f Fact) WithNotes(notes string) Fact {
	f.notes = notes
	return f
}

func (f Fact) WithAudit(createdBy, updatedBy string) Fact {
	f.createdBy = createdBy
	f.updatedBy = updatedBy
	return f
}

// AchievementRate is actual/target*100. It is computed at read time and
// undefined (ok=false) when either value is missing or target is zero; a
// missing rate is never reported as 0 or 100.
func (f Fact) AchievementRate() (decimal.Decimal, bool) {
	if f.target == nil || f.actual == nil || f.target.IsZero() {
		return decimal.Decimal{}, false
	}
	return f.actual.Div(*f.target).Mul(hundred), true
}
