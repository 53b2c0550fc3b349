package fact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DecimalPatch distinguishes "leave unchanged" (Set false) from "set to
// Value, possibly nil" (Set true).
type DecimalPatch struct {
	Set   bool
	Value *decimal.Decimal
}

// TimePatch follows the same tri-state convention for nullable timestamps.
type TimePatch struct {
	Set   bool
	Value *time.Time
}

// UUIDPatch follows the same tri-state convention for nullable references.
type UUIDPatch struct {
	Set   bool
	Value *uuid.UUID
}

type UpdatePatch struct {
	Target       DecimalPatch
	Actual       DecimalPatch
	PeriodStart  TimePatch
	PeriodEnd    TimePatch
	DepartmentID UUIDPatch
	Notes        *string
	UpdatedBy    *string
}

func (p UpdatePatch) IsEmpty() bool {
	return !p.Target.Set &&
		!p.Actual.Set &&
		!p.PeriodStart.Set &&
		!p.PeriodEnd.Set &&
		!p.DepartmentID.Set &&
		p.Notes == nil &&
		p.UpdatedBy == nil
}

type Repository interface {
	// ListByItem returns every fact row of one item ordered by period code
	// ascending, so the lexically greatest period comes last.
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]Fact, error)
	// ListByItems batches the same lookup across many items for aggregation.
	ListByItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]Fact, error)
	GetByID(ctx context.Context, id uuid.UUID) (Fact, error)
	Create(ctx context.Context, data Fact) (Fact, error)
	Update(ctx context.Context, id uuid.UUID, patch UpdatePatch) (Fact, error)
}
