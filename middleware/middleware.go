// Package middleware provides Forge route guards backed by the steward
// engine. The user comes from the authenticated Forge context and the
// tenant from the Forge scope; neither is read from request input.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/assignment"
)

// RequireScope allows the request when the user's view scope on
// resourceType is at least minimum. Handlers still call BuildFilter to
// constrain their queries.
func RequireScope(eng *steward.Engine, resourceType string, minimum steward.Scope) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			userID, ok := steward.UserFromContext(ctx.Context())
			if !ok {
				return denyResponse(ctx, http.StatusUnauthorized, "authentication required")
			}
			scope, err := eng.Scope(ctx.Context(), userID, resourceType)
			if err != nil || scope < minimum || scope == steward.ScopeNone {
				return denyResponse(ctx, http.StatusForbidden, "access denied")
			}
			return next(ctx)
		}
	}
}

// RequireAction allows the request when the user may perform action on
// resourceType.
func RequireAction(eng *steward.Engine, resourceType, action string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			userID, ok := steward.UserFromContext(ctx.Context())
			if !ok {
				return denyResponse(ctx, http.StatusUnauthorized, "authentication required")
			}
			if err := eng.Enforce(ctx.Context(), userID, resourceType, action); err != nil {
				return denyResponse(ctx, http.StatusForbidden, "access denied")
			}
			return next(ctx)
		}
	}
}

// RequireResource allows the request when the user can reach the record
// named by the route parameter param at the given access level.
func RequireResource(eng *steward.Engine, resourceType, param string, level assignment.AccessLevel) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			userID, ok := steward.UserFromContext(ctx.Context())
			if !ok {
				return denyResponse(ctx, http.StatusUnauthorized, "authentication required")
			}
			res := steward.Resource{Type: resourceType, ID: ctx.Param(param)}
			allowed, err := eng.CanAccessResource(ctx.Context(), userID, res, level)
			if err != nil || !allowed {
				return denyResponse(ctx, http.StatusForbidden, "access denied")
			}
			return next(ctx)
		}
	}
}

// RequireAdministrator allows only users classified as administrators.
func RequireAdministrator(eng *steward.Engine) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			userID, ok := steward.UserFromContext(ctx.Context())
			if !ok {
				return denyResponse(ctx, http.StatusUnauthorized, "authentication required")
			}
			if !eng.IsAdministrator(ctx.Context(), userID) {
				return denyResponse(ctx, http.StatusForbidden, "access denied")
			}
			return next(ctx)
		}
	}
}

func denyResponse(ctx forge.Context, status int, msg string) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(status)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": msg})
}
