// Package itf carries small helpers shared by integration-flavored tests.
package itf

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/pkg/composables"
)

// TenantContext returns a background context carrying the given tenant, the
// way the tenant middleware would have established it.
func TenantContext(tenantID uuid.UUID) context.Context {
	return composables.WithTenantID(context.Background(), tenantID)
}

// NewTenantContext generates a fresh tenant id and returns its context.
func NewTenantContext() (context.Context, uuid.UUID) {
	tenantID := uuid.New()
	return TenantContext(tenantID), tenantID
}
