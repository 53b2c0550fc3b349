package server

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/clearline-hq/clearline/pkg/application"
	"github.com/clearline-hq/clearline/pkg/configuration"
	"github.com/clearline-hq/clearline/pkg/constants"
	"github.com/clearline-hq/clearline/pkg/httpapi"
	"github.com/clearline-hq/clearline/pkg/middleware"
	"github.com/clearline-hq/clearline/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default wires the standard middleware stack: request logging first, then
// the app and pool context values, then tenant and actor resolution from
// their headers.
// Transactions are opened per route group by the controllers, not globally.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	app.RegisterMiddleware(
		middleware.WithLogger(options.Logger),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.RequireTenantFromHeader(),
		middleware.ActorFromHeader(),
	)

	return server.NewHTTPServer(app, notFound(), methodNotAllowed()), nil
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	})
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
}
