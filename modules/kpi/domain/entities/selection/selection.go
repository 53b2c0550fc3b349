package selection

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/pkg/serrors"
)

var ErrNotFound = serrors.NewError("KPI_SELECTION_NOT_FOUND", "referenced master record not found")

// Subject is a financial statement subject eligible for KPI management.
type Subject struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Code         string
	Name         string
	IsKpiManaged bool
	IsActive     bool
}

// Definition is a non-financial indicator definition.
type Definition struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Code         string
	Name         string
	Unit         string
	IsKpiManaged bool
	IsActive     bool
}

// Metric is a derived management metric.
type Metric struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Code         string
	Name         string
	Formula      string
	IsKpiManaged bool
	IsActive     bool
}

// Repository serves the reference pickers and re-validates references at
// item creation time. List methods return only active, KPI-managed rows
// ordered by code ascending.
type Repository interface {
	ListSubjects(ctx context.Context) ([]Subject, error)
	ListDefinitions(ctx context.Context) ([]Definition, error)
	ListMetrics(ctx context.Context) ([]Metric, error)
	GetSubjectByID(ctx context.Context, id uuid.UUID) (Subject, error)
	GetDefinitionByID(ctx context.Context, id uuid.UUID) (Definition, error)
	GetMetricByID(ctx context.Context, id uuid.UUID) (Metric, error)
}
