package composables

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/pkg/constants"
	"github.com/clearline-hq/clearline/pkg/serrors"
)

// ErrNoTenantID fails closed: without an established tenant no data access
// may proceed. The message deliberately says nothing about which tenant was
// being targeted.
var ErrNoTenantID = serrors.NewError("TENANT_CONTEXT", "tenant not established")

func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	v := ctx.Value(constants.TenantIDKey)
	if v == nil {
		return uuid.Nil, ErrNoTenantID
	}
	tenantID, ok := v.(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, ErrNoTenantID
	}
	return tenantID, nil
}
