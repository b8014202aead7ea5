// Package store defines the persistence contracts. Each entity package
// (role, principal, team, assignment, checklog) defines its own store
// interface; Store composes them. Reader is the read-only subset the
// engine evaluates against, so legacy schemas can be served without
// implementing writes.
//
// Backends: memory, postgres, sqlite, mongo (full Store) and crmsql
// (Reader over an existing CRM schema).
package store

import (
	"context"
	"errors"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/checklog"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/team"
)

// ErrNotFound is wrapped by every backend when a requested record does
// not exist. Test with errors.Is.
var ErrNotFound = errors.New("store: not found")

// Reader is what the engine needs to evaluate decisions.
type Reader interface {
	// GetPrincipal retrieves a principal by tenant and user ID.
	GetPrincipal(ctx context.Context, tenantID, userID string) (*principal.Principal, error)

	// GetPrincipalRole retrieves the role bound to the principal. The role
	// is returned whatever its active flag; callers decide.
	GetPrincipalRole(ctx context.Context, tenantID, userID string) (*role.Role, error)

	// ListActiveMembers returns direct reports over active edges.
	ListActiveMembers(ctx context.Context, tenantID, supervisorID string) ([]string, error)

	// GetSupervisor returns the user's supervisor over an active edge.
	GetSupervisor(ctx context.Context, tenantID, memberID string) (string, error)

	// GetActiveAssignment returns one active resource assignment.
	GetActiveAssignment(ctx context.Context, tenantID, userID, resourceType, resourceID string) (*assignment.Assignment, error)

	// ListActiveAssignments returns the user's active assignments.
	ListActiveAssignments(ctx context.Context, tenantID, userID, resourceType string) ([]*assignment.Assignment, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

// Store is the aggregate persistence interface implemented by full
// backends.
type Store interface {
	Reader
	role.Store
	principal.Store
	team.Store
	assignment.Store
	checklog.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}

// Migrator is implemented by backends that own a schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
