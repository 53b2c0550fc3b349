package event

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	CompanyID  *uuid.UUID
	FiscalYear *int
	Limit      int
	Offset     int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Event, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Event, error)
	Create(ctx context.Context, e Event) (Event, error)
	// Confirm flips the status to confirmed. Repeated calls succeed and
	// return the already-confirmed event.
	Confirm(ctx context.Context, id uuid.UUID) (Event, error)
}
