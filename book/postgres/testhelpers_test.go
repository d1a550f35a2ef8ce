//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

/*
Helpers for the integration suite: one postgres:16 container per test function,
plus an admin *sql.DB used to inspect and reset the books table between subtests.
https://golang.testcontainers.org/modules/postgres/
*/

// PostgresContainer is a running server and an admin connection to it
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	ConnStr   string
}

// SetupPostgresContainer starts the server and returns a func that stops it
func SetupPostgresContainer(t *testing.T, ctx context.Context) (*PostgresContainer, func()) {
	t.Helper()

	server, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("library"),
		tcpostgres.WithUsername("librarian"),
		tcpostgres.WithPassword("librarian"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := server.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	admin, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, admin.PingContext(ctx))

	stop := func() {
		_ = admin.Close()
		if err := server.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}

	return &PostgresContainer{Container: server, DB: admin, ConnStr: connStr}, stop
}

// CleanupDatabase empties the books table and restarts seq, so insertion order starts over
func CleanupDatabase(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()

	_, err := db.ExecContext(ctx, "TRUNCATE books RESTART IDENTITY")
	require.NoError(t, err)
}

// AssertBookCount fails the test unless the table holds exactly want rows
func AssertBookCount(t *testing.T, ctx context.Context, db *sql.DB, want int) {
	t.Helper()

	var got int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM books").Scan(&got))
	require.Equal(t, want, got, "rows in books")
}

// CreateTestRepository opens a repository on connStr with a small pool and creates the schema
func CreateTestRepository(t *testing.T, ctx context.Context, connStr string) *Repository {
	t.Helper()

	repo, err := NewRepositoryWithPoolConfig(connStr, 5, 2, 1)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTable(ctx))

	return repo
}
