// Package crmsql serves the engine's read path from an existing CRM schema
// (Users, Roles, Team_Structure, Resource_Assignments) over database/sql.
// It implements store.Reader only; the CRM application owns the writes.
package crmsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
)

// Compile-time interface check.
var _ store.Reader = (*Reader)(nil)

// Dialect selects the bind parameter style of the driver.
type Dialect string

const (
	// DialectMySQL binds with "?".
	DialectMySQL Dialect = "mysql"

	// DialectPostgres binds with "$1", "$2", ...
	DialectPostgres Dialect = "postgres"
)

// Tables names the legacy tables. Zero fields fall back to the CRM names.
type Tables struct {
	Users               string `json:"users" yaml:"users"`
	Roles               string `json:"roles" yaml:"roles"`
	TeamStructure       string `json:"team_structure" yaml:"team_structure"`
	ResourceAssignments string `json:"resource_assignments" yaml:"resource_assignments"`
}

// DefaultTables returns the table names used by the CRM.
func DefaultTables() Tables {
	return Tables{
		Users:               "Users",
		Roles:               "Roles",
		TeamStructure:       "Team_Structure",
		ResourceAssignments: "Resource_Assignments",
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Reader reads principals, roles, team edges, and assignments from the
// legacy schema.
type Reader struct {
	db      *sql.DB
	dialect Dialect
	tables  Tables
}

// Option configures a Reader.
type Option func(*Reader)

// WithDialect sets the bind parameter style. Defaults to DialectMySQL.
func WithDialect(d Dialect) Option { return func(r *Reader) { r.dialect = d } }

// WithTables overrides the legacy table names.
func WithTables(t Tables) Option {
	return func(r *Reader) {
		def := DefaultTables()
		r.tables = Tables{
			Users:               firstNonEmpty(t.Users, def.Users),
			Roles:               firstNonEmpty(t.Roles, def.Roles),
			TeamStructure:       firstNonEmpty(t.TeamStructure, def.TeamStructure),
			ResourceAssignments: firstNonEmpty(t.ResourceAssignments, def.ResourceAssignments),
		}
	}
}

// New creates a Reader over db. Table names are interpolated into SQL and
// must be plain identifiers.
func New(db *sql.DB, opts ...Option) (*Reader, error) {
	r := &Reader{db: db, dialect: DialectMySQL, tables: DefaultTables()}
	for _, opt := range opts {
		opt(r)
	}
	switch r.dialect {
	case DialectMySQL, DialectPostgres:
	default:
		return nil, fmt.Errorf("steward/crmsql: unknown dialect %q", r.dialect)
	}
	for _, name := range []string{r.tables.Users, r.tables.Roles, r.tables.TeamStructure, r.tables.ResourceAssignments} {
		if !identifier.MatchString(name) {
			return nil, fmt.Errorf("steward/crmsql: invalid table name %q", name)
		}
	}
	return r, nil
}

// Ping verifies the database connection.
func (r *Reader) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetPrincipal reads the user row. custom_permissions is returned verbatim.
func (r *Reader) GetPrincipal(ctx context.Context, tenantID, userID string) (*principal.Principal, error) {
	q := r.bind(`SELECT u.id, u.tenant_id, u.activo, u.custom_permissions
FROM ` + r.tables.Users + ` u
WHERE u.id = ? AND u.tenant_id = ?`)

	var (
		p         principal.Principal
		overrides sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, userID, tenantID).
		Scan(&p.ID, &p.TenantID, &p.IsActive, &overrides)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/crmsql: get principal: %w", err)
	}
	p.Overrides = document(overrides)
	return &p, nil
}

// GetPrincipalRole reads the role joined through Users.rol_id. Roles with a
// NULL tenant_id are shared and reported under the user's tenant.
func (r *Reader) GetPrincipalRole(ctx context.Context, tenantID, userID string) (*role.Role, error) {
	q := r.bind(`SELECT r.id, COALESCE(r.tenant_id, u.tenant_id), r.nombre, r.permisos, r.activo
FROM ` + r.tables.Users + ` u
JOIN ` + r.tables.Roles + ` r ON u.rol_id = r.id
WHERE u.id = ? AND u.tenant_id = ?`)

	var (
		legacyID    string
		rl          role.Role
		permissions sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, userID, tenantID).
		Scan(&legacyID, &rl.TenantID, &rl.Name, &permissions, &rl.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role of principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/crmsql: get principal role: %w", err)
	}
	rl.Permissions = document(permissions)
	rl.Metadata = map[string]any{"legacy_id": legacyID}
	return &rl, nil
}

// ListActiveMembers returns the supervisor's direct reports.
func (r *Reader) ListActiveMembers(ctx context.Context, tenantID, supervisorID string) ([]string, error) {
	q := r.bind(`SELECT DISTINCT team_member_id
FROM ` + r.tables.TeamStructure + `
WHERE supervisor_id = ? AND tenant_id = ? AND is_active = TRUE
ORDER BY team_member_id`)

	rows, err := r.db.QueryContext(ctx, q, supervisorID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("steward/crmsql: list active members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("steward/crmsql: scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("steward/crmsql: list active members: %w", err)
	}
	return members, nil
}

// GetSupervisor returns the member's supervisor. When the legacy data holds
// more than one active edge the lowest supervisor id wins.
func (r *Reader) GetSupervisor(ctx context.Context, tenantID, memberID string) (string, error) {
	q := r.bind(`SELECT supervisor_id
FROM ` + r.tables.TeamStructure + `
WHERE team_member_id = ? AND tenant_id = ? AND is_active = TRUE
ORDER BY supervisor_id
LIMIT 1`)

	var supervisor string
	err := r.db.QueryRowContext(ctx, q, memberID, tenantID).Scan(&supervisor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("supervisor of %s/%s: %w", tenantID, memberID, store.ErrNotFound)
		}
		return "", fmt.Errorf("steward/crmsql: get supervisor: %w", err)
	}
	return supervisor, nil
}

// GetActiveAssignment returns the strongest active grant on one resource.
func (r *Reader) GetActiveAssignment(ctx context.Context, tenantID, userID, resourceType, resourceID string) (*assignment.Assignment, error) {
	q := r.bind(`SELECT access_level
FROM ` + r.tables.ResourceAssignments + `
WHERE assigned_to_user = ? AND tenant_id = ? AND resource_type = ? AND resource_id = ? AND is_active = TRUE
ORDER BY CASE access_level WHEN 'full' THEN 3 WHEN 'write' THEN 2 WHEN 'read' THEN 1 ELSE 0 END DESC
LIMIT 1`)

	var level string
	err := r.db.QueryRowContext(ctx, q, userID, tenantID, resourceType, resourceID).Scan(&level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment of %s %s to %s: %w", resourceType, resourceID, userID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/crmsql: get active assignment: %w", err)
	}
	return &assignment.Assignment{
		TenantID:     tenantID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		AssignedTo:   userID,
		AccessLevel:  assignment.AccessLevel(level),
		IsActive:     true,
	}, nil
}

// ListActiveAssignments returns the user's active grants, optionally
// narrowed to one resource type.
func (r *Reader) ListActiveAssignments(ctx context.Context, tenantID, userID, resourceType string) ([]*assignment.Assignment, error) {
	query := `SELECT resource_type, resource_id, access_level
FROM ` + r.tables.ResourceAssignments + `
WHERE assigned_to_user = ? AND tenant_id = ? AND is_active = TRUE`
	args := []any{userID, tenantID}
	if resourceType != "" {
		query += " AND resource_type = ?"
		args = append(args, resourceType)
	}
	query += "\nORDER BY resource_type, resource_id"

	rows, err := r.db.QueryContext(ctx, r.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("steward/crmsql: list active assignments: %w", err)
	}
	defer rows.Close()

	var out []*assignment.Assignment
	for rows.Next() {
		a := &assignment.Assignment{TenantID: tenantID, AssignedTo: userID, IsActive: true}
		var level string
		if err := rows.Scan(&a.ResourceType, &a.ResourceID, &level); err != nil {
			return nil, fmt.Errorf("steward/crmsql: scan assignment: %w", err)
		}
		a.AccessLevel = assignment.AccessLevel(level)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("steward/crmsql: list active assignments: %w", err)
	}
	return out, nil
}

// bind rewrites "?" placeholders for the configured dialect.
func (r *Reader) bind(q string) string {
	if r.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func document(s sql.NullString) json.RawMessage {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.RawMessage(s.String)
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
