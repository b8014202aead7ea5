// Package api provides HTTP handlers for the steward engine: decision
// endpoints plus tenant-scoped administration of roles, principals, team
// edges, assignments, and the decision log.
package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/middleware"
	"github.com/xraph/steward/store"
)

// API wires all steward HTTP handlers together.
type API struct {
	eng    *steward.Engine
	store  store.Store
	router forge.Router
}

// New creates an API from an Engine, the writable store behind it, and a
// Forge router.
func New(eng *steward.Engine, s store.Store, router forge.Router) *API {
	return &API{eng: eng, store: s, router: router}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	if err := a.RegisterRoutes(a.router); err != nil {
		panic("steward: register routes: " + err.Error())
	}
	return a.router.Handler()
}

// RegisterRoutes registers all API routes into the given Forge router.
// Administration routes are skipped when no writable store is set, and
// require an administrator caller when mounted.
func (a *API) RegisterRoutes(router forge.Router) error {
	registerers := []func(forge.Router) error{a.registerDecisionRoutes}
	if a.store != nil {
		registerers = append(registerers,
			a.registerRoleRoutes,
			a.registerPrincipalRoutes,
			a.registerTeamRoutes,
			a.registerAssignmentRoutes,
			a.registerCheckLogRoutes,
		)
	}
	for _, fn := range registerers {
		if err := fn(router); err != nil {
			return err
		}
	}
	return nil
}

// adminOnly guards administration routes and the explain diagnostic.
func (a *API) adminOnly() forge.Middleware {
	return middleware.RequireAdministrator(a.eng)
}
