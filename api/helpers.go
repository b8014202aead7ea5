package api

import (
	"errors"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/store"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if store.IsNotFound(err) {
		return forge.NotFound(err.Error())
	}
	if steward.IsContractError(err) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, steward.ErrAccessDenied) {
		return forge.Forbidden(err.Error())
	}
	return err
}

// tenant returns the tenant pinned by the Forge scope.
func tenant(ctx forge.Context) (string, error) {
	t, ok := steward.TenantFromContext(ctx.Context())
	if !ok {
		return "", forge.BadRequest(steward.ErrTenantRequired.Error())
	}
	return t, nil
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
