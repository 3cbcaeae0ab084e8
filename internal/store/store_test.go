package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomGlanzman/Perp/internal/store"
)

const baseSchema = `
CREATE TABLE workflow (
    run_id         TEXT PRIMARY KEY,
    workflow_name  TEXT,
    time_began     TEXT,
    time_completed TEXT
);

CREATE TABLE task (
    run_id          TEXT NOT NULL,
    task_id         INTEGER NOT NULL,
    task_func_name  TEXT NOT NULL,
    task_fail_count INTEGER NOT NULL DEFAULT 0,
    task_hashsum    TEXT,
    task_stdout     TEXT
);

CREATE TABLE try (
    run_id                 TEXT NOT NULL,
    task_id                INTEGER NOT NULL,
    try_id                 INTEGER NOT NULL,
    hostname               TEXT,
    task_try_time_launched TEXT,
    task_try_time_running  TEXT,
    task_try_time_returned TEXT
);

CREATE TABLE status (
    run_id           TEXT NOT NULL,
    task_id          INTEGER NOT NULL,
    try_id           INTEGER NOT NULL,
    timestamp        TEXT NOT NULL,
    task_status_name TEXT NOT NULL
);`

func newBareStore(t *testing.T) (*sqlx.DB, *store.Store) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	db.MustExec(baseSchema)
	return db, store.NewWithDB(db, ":memory:")
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such.db")

	_, err := store.Open(path, time.Second)

	var unavailable *store.StoreUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, path, unavailable.Path)
}

func TestOpenExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitoring.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	st, err := store.Open(path, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	assert.Equal(t, path, st.Path())
	require.NoError(t, st.ExecDDL(context.Background(), `CREATE TABLE workflow (run_id TEXT)`))

	tables, err := st.SchemaList(context.Background(), "table")
	require.NoError(t, err)
	assert.Contains(t, tables, "workflow")
}

func TestProvisionViewsIdempotent(t *testing.T) {
	_, st := newBareStore(t)
	ctx := context.Background()

	ok, err := st.HasViews(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh engine database carries no reporting views")

	require.NoError(t, st.ProvisionViews(ctx))
	ok, err = st.HasViews(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// Reprovisioning drops and recreates, never errors.
	require.NoError(t, st.ProvisionViews(ctx))
	ok, err = st.HasViews(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSchemaListDistinguishesKinds(t *testing.T) {
	_, st := newBareStore(t)
	ctx := context.Background()
	require.NoError(t, st.ProvisionViews(ctx))

	tables, err := st.SchemaList(ctx, "table")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"workflow", "task", "try", "status"}, tables)

	views, err := st.SchemaList(ctx, "view")
	require.NoError(t, err)
	assert.ElementsMatch(t, store.RequiredViews, views)
}

func TestSchemaReturnsCreationSQL(t *testing.T) {
	_, st := newBareStore(t)
	ctx := context.Background()
	require.NoError(t, st.ProvisionViews(ctx))

	ddl, err := st.Schema(ctx, "view", "summary")
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE VIEW summary")
}

func TestQueryReturnsColumnsAndRows(t *testing.T) {
	db, st := newBareStore(t)
	ctx := context.Background()
	db.MustExec(`INSERT INTO workflow (run_id, workflow_name, time_began) VALUES ('r1', 'wf', '2021-04-01 08:00:00.000000')`)

	cols, rows, err := st.Query(ctx, "SELECT run_id, workflow_name FROM workflow")
	require.NoError(t, err)

	assert.Equal(t, []string{"run_id", "workflow_name"}, cols)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 2)
	assert.Equal(t, "r1", rows[0][0])
}

func TestQueryErrorWrapsBadSQL(t *testing.T) {
	_, st := newBareStore(t)

	_, _, err := st.Query(context.Background(), "SELECT * FROM no_such_table")

	var qerr *store.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Contains(t, qerr.Query, "no_such_table")
}
