//go:build integration

package crmsql_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xraph/steward"
	"github.com/xraph/steward/store/crmsql"
)

// Unquoted names fold to lower case on both sides of the reader.
const legacySchema = `
CREATE TABLE Roles (
    id          TEXT PRIMARY KEY,
    tenant_id   TEXT,
    nombre      TEXT NOT NULL,
    permisos    TEXT,
    activo      BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE Users (
    id                  TEXT NOT NULL,
    tenant_id           TEXT NOT NULL,
    rol_id              TEXT,
    activo              BOOLEAN NOT NULL DEFAULT TRUE,
    custom_permissions  TEXT,
    PRIMARY KEY (tenant_id, id)
);
CREATE TABLE Team_Structure (
    supervisor_id   TEXT NOT NULL,
    team_member_id  TEXT NOT NULL,
    tenant_id       TEXT NOT NULL,
    is_active       BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE Resource_Assignments (
    assigned_to_user  TEXT NOT NULL,
    tenant_id         TEXT NOT NULL,
    resource_type     TEXT NOT NULL,
    resource_id       TEXT NOT NULL,
    access_level      TEXT NOT NULL,
    is_active         BOOLEAN NOT NULL DEFAULT TRUE
);

INSERT INTO Roles VALUES
    ('1', 't1', 'Administrador', '{}', TRUE),
    ('2', 't1', 'Supervisor', '{"candidates":{"view_scope":"team"}}', TRUE),
    ('3', 't1', 'Reclutador', '{"candidates":{"view_scope":"own"}}', TRUE),
    ('4', 't2', 'Administrador', '{}', TRUE);
INSERT INTO Users VALUES
    ('1', 't1', '1', TRUE, NULL),
    ('3', 't1', '2', TRUE, NULL),
    ('7', 't1', '3', TRUE, NULL),
    ('9', 't1', '3', TRUE, '{"candidates":{"view_scope":"all"}}'),
    ('11', 't1', '3', FALSE, NULL),
    ('5', 't1', '4', TRUE, NULL);
INSERT INTO Team_Structure VALUES
    ('3', '7', 't1', TRUE),
    ('3', '9', 't1', TRUE),
    ('3', '11', 't1', FALSE),
    ('3', '21', 't2', TRUE);
INSERT INTO Resource_Assignments VALUES
    ('7', 't1', 'clients', '12', 'read', TRUE),
    ('7', 't1', 'clients', '12', 'full', TRUE);
`

func setupLegacyPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("crm_test"),
		postgres.WithUsername("crm"),
		postgres.WithPassword("crm_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(ctx, legacySchema)
	require.NoError(t, err)
	return db
}

func TestLegacySchemaEndToEnd(t *testing.T) {
	db := setupLegacyPostgres(t)
	r, err := crmsql.New(db, crmsql.WithDialect(crmsql.DialectPostgres))
	require.NoError(t, err)

	eng, err := steward.NewEngine(steward.WithStore(r))
	require.NoError(t, err)
	ctx := steward.WithTenant(context.Background(), "t1")

	tests := []struct {
		user string
		want steward.Filter
	}{
		{"1", steward.Unrestricted()},
		{"3", steward.RestrictToUsers("3", "7", "9")},
		{"7", steward.RestrictToUsers("7")},
		{"9", steward.Unrestricted()},
		{"11", steward.DenyAll()},
		{"5", steward.DenyAll()},
		{"404", steward.DenyAll()},
	}
	for _, tt := range tests {
		t.Run("user "+tt.user, func(t *testing.T) {
			f, err := eng.BuildFilter(ctx, tt.user, "candidates")
			require.NoError(t, err)
			assert.True(t, f.Equal(tt.want), "got %s, want %s", f, tt.want)
		})
	}

	ok, err := eng.CanAccessResource(ctx, "7", steward.Resource{Type: "clients", ID: "12"}, "write")
	require.NoError(t, err)
	assert.True(t, ok)
}
