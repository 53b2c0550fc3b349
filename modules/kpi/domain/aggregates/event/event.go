package event

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/pkg/serrors"
)

// Status is the lifecycle of a management event. The transition is one-way:
// once confirmed an event never returns to draft.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
)

var (
	ErrNotFound      = serrors.NewError("KPI_EVENT_NOT_FOUND", "management event not found")
	ErrDuplicateCode = serrors.NewFieldError("KPI_DUPLICATE_CODE", "code", "event code already exists for this company")
	ErrConfirmed     = serrors.NewError("KPI_EVENT_CONFIRMED", "event is confirmed; structural changes are locked")
)

// Event represents one fiscal-year KPI management cycle.
type Event struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	companyID  uuid.UUID
	code       string
	name       string
	fiscalYear int
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

func New(tenantID, companyID uuid.UUID, code, name string, fiscalYear int) Event {
	return Event{
		tenantID:   tenantID,
		companyID:  companyID,
		code:       strings.TrimSpace(code),
		name:       strings.TrimSpace(name),
		fiscalYear: fiscalYear,
		status:     StatusDraft,
	}
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	companyID uuid.UUID,
	code string,
	name string,
	fiscalYear int,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Event {
	return Event{
		id:         id,
		tenantID:   tenantID,
		companyID:  companyID,
		code:       strings.TrimSpace(code),
		name:       strings.TrimSpace(name),
		fiscalYear: fiscalYear,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (e Event) ID() uuid.UUID        { return e.id }
func (e Event) TenantID() uuid.UUID  { return e.tenantID }
func (e Event) CompanyID() uuid.UUID { return e.companyID }
func (e Event) Code() string         { return e.code }
func (e Event) Name() string         { return e.name }
func (e Event) FiscalYear() int      { return e.fiscalYear }
func (e Event) Status() Status       { return e.status }
func (e Event) CreatedAt() time.Time { return e.createdAt }
func (e Event) UpdatedAt() time.Time { return e.updatedAt }
func (e Event) IsZero() bool         { return e.id == uuid.Nil && e.code == "" }

func (e Event) IsConfirmed() bool { return e.status == StatusConfirmed }

// Confirm returns a confirmed copy. Confirming an already confirmed event is
// a no-op, not an error.
func (e Event) Confirm() Event {
	e.status = StatusConfirmed
	return e
}
