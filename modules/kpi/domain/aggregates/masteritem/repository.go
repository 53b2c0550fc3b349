package masteritem

import (
	"context"

	"github.com/google/uuid"
)

// Sort field names accepted by list queries. Anything else silently falls
// back to sort order ascending.
const (
	SortByCode      = "code"
	SortByName      = "name"
	SortBySortOrder = "sortOrder"
	SortByCreatedAt = "createdAt"
)

type FindParams struct {
	EventID  uuid.UUID
	ParentID *uuid.UUID
	Kind     *Kind
	Level    *int
	// Keyword matches case-insensitively against code and name.
	Keyword  string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// UUIDPatch distinguishes "leave unchanged" (Set=false) from "write Value,
// possibly nil" (Set=true).
type UUIDPatch struct {
	Set   bool
	Value *uuid.UUID
}

// UpdatePatch covers the only mutable fields of an item. Kind, event, level
// and reference are immutable after creation.
type UpdatePatch struct {
	Name            *string
	DepartmentID    UUIDPatch
	OwnerEmployeeID UUIDPatch
	SortOrder       *int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]MasterItem, int64, error)
	// ListActiveByEvent returns every active item of the event, both levels,
	// without pagination. Used by the aggregation engine.
	ListActiveByEvent(ctx context.Context, eventID uuid.UUID) ([]MasterItem, error)
	// GetByID resolves a single active item. Logically deleted items are
	// indistinguishable from missing ones and surface as ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (MasterItem, error)
	Create(ctx context.Context, item MasterItem) (MasterItem, error)
	Update(ctx context.Context, id uuid.UUID, patch *UpdatePatch) (MasterItem, error)
	// Deactivate logically deletes the item. Returns false without error when
	// the item does not exist or is already inactive.
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}
