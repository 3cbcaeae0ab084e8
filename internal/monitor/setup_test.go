package monitor_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/TomGlanzman/Perp/internal/store"
)

// The test databases mirror the four base tables the workflow engine
// writes. Timestamps are the engine's local-naive microsecond strings.

const engineSchema = `
CREATE TABLE workflow (
    run_id                TEXT PRIMARY KEY,
    workflow_name         TEXT,
    workflow_version      TEXT,
    time_began            TEXT,
    time_completed        TEXT,
    host                  TEXT NOT NULL DEFAULT 'login01',
    user                  TEXT NOT NULL DEFAULT 'tester',
    rundir                TEXT NOT NULL DEFAULT '/work/runinfo/000',
    tasks_failed_count    INTEGER NOT NULL DEFAULT 0,
    tasks_completed_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE task (
    run_id          TEXT NOT NULL,
    task_id         INTEGER NOT NULL,
    task_func_name  TEXT NOT NULL,
    task_fail_count INTEGER NOT NULL DEFAULT 0,
    task_hashsum    TEXT,
    task_stdout     TEXT,
    task_depends    TEXT
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

// newTestStore returns an in-memory monitoring database with the engine
// schema created and the reporting views provisioned.
func newTestStore(t *testing.T) (*sqlx.DB, *store.Store) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// The pool would otherwise hand each connection its own empty
	// in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	db.MustExec(engineSchema)

	st := store.NewWithDB(db, ":memory:")
	require.NoError(t, st.ProvisionViews(context.Background()))
	return db, st
}

// insertRun adds a workflow row and returns its opaque run id.
func insertRun(t *testing.T, db *sqlx.DB, name, began, completed string) string {
	t.Helper()

	runID := uuid.NewString()
	db.MustExec(`
		INSERT INTO workflow (run_id, workflow_name, time_began, time_completed, rundir)
		VALUES (?, ?, ?, nullif(?, ''), '/work/runinfo/000')
	`, runID, name, began, completed)
	return runID
}

// insertTask adds a task row. An empty hashsum or stdout inserts NULL.
func insertTask(t *testing.T, db *sqlx.DB, runID string, taskID int64, funcName, hashsum, stdout string, fails int) {
	t.Helper()

	db.MustExec(`
		INSERT INTO task (run_id, task_id, task_func_name, task_fail_count, task_hashsum, task_stdout)
		VALUES (?, ?, ?, ?, nullif(?, ''), nullif(?, ''))
	`, runID, taskID, funcName, fails, hashsum, stdout)
}

// insertTry adds an attempt row. Empty timestamps or hostname insert NULL.
func insertTry(t *testing.T, db *sqlx.DB, runID string, taskID, tryID int64, hostname, launched, running, returned string) {
	t.Helper()

	db.MustExec(`
		INSERT INTO try (run_id, task_id, try_id, hostname, task_try_time_launched, task_try_time_running, task_try_time_returned)
		VALUES (?, ?, ?, nullif(?, ''), nullif(?, ''), nullif(?, ''), nullif(?, ''))
	`, runID, taskID, tryID, hostname, launched, running, returned)
}

// insertStatus adds a status event row.
func insertStatus(t *testing.T, db *sqlx.DB, runID string, taskID, tryID int64, timestamp, status string) {
	t.Helper()

	db.MustExec(`
		INSERT INTO status (run_id, task_id, try_id, timestamp, task_status_name)
		VALUES (?, ?, ?, ?, ?)
	`, runID, taskID, tryID, timestamp, status)
}
