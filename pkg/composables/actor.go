package composables

import (
	"context"

	"github.com/clearline-hq/clearline/pkg/constants"
)

// WithActor records who is performing the request, typically the employee id
// forwarded by the gateway. Audit columns are filled from it.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, constants.ActorKey, actor)
}

// UseActor returns the recorded actor or an empty string. Unlike the tenant,
// a missing actor does not block the request; it only leaves audit fields
// blank.
func UseActor(ctx context.Context) string {
	if v, ok := ctx.Value(constants.ActorKey).(string); ok {
		return v
	}
	return ""
}
