package steward

import "errors"

var (
	// ErrStoreRequired is returned by NewEngine without a store.
	ErrStoreRequired = errors.New("steward: store is required")

	// ErrTenantRequired is returned when no tenant is pinned to the context.
	// It signals a caller bug, never a permission outcome.
	ErrTenantRequired = errors.New("steward: tenant id is required")

	// ErrUserRequired is returned for an empty user id.
	ErrUserRequired = errors.New("steward: user id is required")

	// ErrResourceTypeRequired is returned for an empty resource type.
	ErrResourceTypeRequired = errors.New("steward: resource type is required")

	// ErrUnknownTeamPolicy is returned by NewEngine for an unsupported policy.
	ErrUnknownTeamPolicy = errors.New("steward: unknown team policy")

	// ErrTeamDepthExceeded is reported by a transitive team walk that hit
	// its depth bound. The members collected so far are still returned.
	ErrTeamDepthExceeded = errors.New("steward: team depth exceeded")

	// ErrAccessDenied is returned by Enforce when an action is not granted.
	ErrAccessDenied = errors.New("steward: access denied")
)
