package masteritem

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/pkg/serrors"
)

const (
	LevelRoot  = 1
	LevelChild = 2
)

var (
	ErrNotFound         = serrors.NewError("KPI_ITEM_NOT_FOUND", "master item not found")
	ErrDuplicateCode    = serrors.NewFieldError("KPI_DUPLICATE_CODE", "code", "item code already exists in this event")
	ErrInvalidReference = serrors.NewFieldError("KPI_INVALID_REFERENCE", "reference", "referenced record is not KPI-managed")
	ErrInvalidKind      = serrors.NewFieldError("KPI_INVALID_KIND", "kind", "unknown item kind")
	ErrInvalidLevel     = serrors.NewFieldError("KPI_INVALID_LEVEL", "hierarchyLevel", "hierarchy level must be 1 or 2")
	ErrRootHasParent    = serrors.NewFieldError("KPI_INVALID_PARENT", "parentId", "level-1 items cannot have a parent")
	ErrChildNeedsParent = serrors.NewFieldError("KPI_INVALID_PARENT", "parentId", "level-2 items require a level-1 parent")
)

// MasterItem is a single KPI node in the two-level hierarchy of an event.
type MasterItem struct {
	id              uuid.UUID
	tenantID        uuid.UUID
	eventID         uuid.UUID
	parentID        *uuid.UUID
	code            string
	name            string
	ref             Reference
	level           int
	departmentID    *uuid.UUID
	ownerEmployeeID *uuid.UUID
	sortOrder       int
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
}

// New builds a level-consistent item. Parent existence and the KPI-managed
// flag of the reference are validated by the service against the stores;
// everything expressible without I/O is enforced here.
func New(
	tenantID uuid.UUID,
	eventID uuid.UUID,
	parentID *uuid.UUID,
	code string,
	name string,
	ref Reference,
	level int,
	sortOrder int,
) (MasterItem, error) {
	if !ref.Kind().Valid() || ref.IsZero() {
		return MasterItem{}, ErrInvalidKind
	}
	switch level {
	case LevelRoot:
		if parentID != nil {
			return MasterItem{}, ErrRootHasParent
		}
	case LevelChild:
		if parentID == nil || *parentID == uuid.Nil {
			return MasterItem{}, ErrChildNeedsParent
		}
	default:
		return MasterItem{}, ErrInvalidLevel
	}
	if sortOrder <= 0 {
		sortOrder = 1
	}
	return MasterItem{
		tenantID:  tenantID,
		eventID:   eventID,
		parentID:  parentID,
		code:      strings.TrimSpace(code),
		name:      strings.TrimSpace(name),
		ref:       ref,
		level:     level,
		sortOrder: sortOrder,
		isActive:  true,
	}, nil
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	eventID uuid.UUID,
	parentID *uuid.UUID,
	code string,
	name string,
	ref Reference,
	level int,
	departmentID *uuid.UUID,
	ownerEmployeeID *uuid.UUID,
	sortOrder int,
	isActive bool,
	createdAt time.Time,
	updatedAt time.Time,
) MasterItem {
	return MasterItem{
		id:              id,
		tenantID:        tenantID,
		eventID:         eventID,
		parentID:        parentID,
		code:            code,
		name:            name,
		ref:             ref,
		level:           level,
		departmentID:    departmentID,
		ownerEmployeeID: ownerEmployeeID,
		sortOrder:       sortOrder,
		isActive:        isActive,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (m MasterItem) ID() uuid.UUID               { return m.id }
func (m MasterItem) TenantID() uuid.UUID         { return m.tenantID }
func (m MasterItem) EventID() uuid.UUID          { return m.eventID }
func (m MasterItem) ParentID() *uuid.UUID        { return m.parentID }
func (m MasterItem) Code() string                { return m.code }
func (m MasterItem) Name() string                { return m.name }
func (m MasterItem) Ref() Reference              { return m.ref }
func (m MasterItem) Level() int                  { return m.level }
func (m MasterItem) DepartmentID() *uuid.UUID    { return m.departmentID }
func (m MasterItem) OwnerEmployeeID() *uuid.UUID { return m.ownerEmployeeID }
func (m MasterItem) SortOrder() int              { return m.sortOrder }
func (m MasterItem) IsActive() bool              { return m.isActive }
func (m MasterItem) CreatedAt() time.Time        { return m.createdAt }
func (m MasterItem) UpdatedAt() time.Time        { return m.updatedAt }
func (m MasterItem) IsZero() bool                { return m.id == uuid.Nil && m.code == "" }

func (m MasterItem) WithDepartmentID(departmentID *uuid.UUID) MasterItem {
	m.departmentID = departmentID
	return m
}

func (m MasterItem) WithOwnerEmployeeID(ownerEmployeeID *uuid.UUID) MasterItem {
	m.ownerEmployeeID = ownerEmployeeID
	return m
}

// Deactivate marks the item logically deleted. The second return value is
// false when the item was already inactive; the state machine is terminal.
func (m MasterItem) Deactivate() (MasterItem, bool) {
	if !m.isActive {
		return m, false
	}
	m.isActive = false
	return m, true
}
