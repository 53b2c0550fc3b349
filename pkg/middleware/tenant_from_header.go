package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clearline-hq/clearline/pkg/composables"
	"github.com/clearline-hq/clearline/pkg/configuration"
)

// RequireTenantFromHeader resolves the caller's tenant from the configured
// header into the request context. Requests without a valid tenant id get a
// bare 404 that discloses nothing about existing tenants.
func RequireTenantFromHeader() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(conf.TenantIDHeader))
			if raw == "" {
				http.NotFound(w, r)
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil || tenantID == uuid.Nil {
				logger := composables.UseLogger(r.Context())
				logger.WithField("path", r.URL.Path).Warn("request carried an invalid tenant id")
				http.NotFound(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
		})
	}
}
