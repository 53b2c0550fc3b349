package actionplan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the slim action-plan projection shown under a KPI node. The
// full action-plan lifecycle lives elsewhere; aggregation only needs these
// fields.
type Summary struct {
	ID             uuid.UUID
	Name           string
	DepartmentName string
	OwnerName      string
	DueDate        *time.Time
	ProgressRate   decimal.Decimal
}

// IsDelayed reports whether the plan is past due and not finished. Plans
// without a due date are never delayed.
func (s Summary) IsDelayed(now time.Time) bool {
	if s.DueDate == nil {
		return false
	}
	if s.ProgressRate.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return false
	}
	return s.DueDate.Before(now)
}

// Provider fetches action-plan summaries keyed by the KPI item they belong
// to. Aggregation treats it as a soft dependency and degrades when it fails.
type Provider interface {
	ListSummaries(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]Summary, error)
}
