package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/clearline-hq/clearline/pkg/composables"
	"github.com/clearline-hq/clearline/pkg/configuration"
)

// ActorFromHeader copies the acting user from the configured header into the
// request context. The header is optional; services fall back to blank audit
// fields when it is absent.
func ActorFromHeader() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(conf.ActorHeader))
			if actor != "" {
				r = r.WithContext(composables.WithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}
