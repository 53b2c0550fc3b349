package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type KpiEvent struct {
	ID         pgtype.UUID
	TenantID   pgtype.UUID
	CompanyID  pgtype.UUID
	Code       string
	Name       string
	FiscalYear int
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type KpiMasterItem struct {
	ID              pgtype.UUID
	TenantID        pgtype.UUID
	EventID         pgtype.UUID
	ParentID        pgtype.UUID
	Code            string
	Name            string
	Kind            string
	SubjectID       pgtype.UUID
	DefinitionID    pgtype.UUID
	MetricID        pgtype.UUID
	Level           int
	DepartmentID    pgtype.UUID
	OwnerEmployeeID pgtype.UUID
	SortOrder       int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type KpiFact struct {
	ID           pgtype.UUID
	TenantID     pgtype.UUID
	ItemID       pgtype.UUID
	PeriodCode   string
	PeriodStart  pgtype.Date
	PeriodEnd    pgtype.Date
	TargetValue  pgtype.Numeric
	ActualValue  pgtype.Numeric
	DepartmentID pgtype.UUID
	Notes        string
	CreatedBy    string
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type KpiActionPlan struct {
	ID             pgtype.UUID
	TenantID       pgtype.UUID
	ItemID         pgtype.UUID
	Name           string
	DepartmentName string
	OwnerName      string
	DueDate        pgtype.Date
	ProgressRate   pgtype.Numeric
}

type FinSubject struct {
	ID           pgtype.UUID
	TenantID     pgtype.UUID
	Code         string
	Name         string
	IsKpiManaged bool
	IsActive     bool
}

type NonFinDefinition struct {
	ID           pgtype.UUID
	TenantID     pgtype.UUID
	Code         string
	Name         string
	Unit         string
	IsKpiManaged bool
	IsActive     bool
}

type MgmtMetric struct {
	ID           pgtype.UUID
	TenantID     pgtype.UUID
	Code         string
	Name         string
	Formula      string
	IsKpiManaged bool
	IsActive     bool
}
