package store

import (
	"context"

	"github.com/rs/zerolog/log"
)

// The monitoring database as written by the engine carries only the four
// base tables (workflow, task, try, status). The reporting queries lean on
// a handful of precomputed join views which we provision once per database
// file. Provisioning is idempotent: drop then recreate.

// RequiredViews lists every view the reporting queries depend on, in
// creation order.
var RequiredViews = []string{"runview", "taskview", "nctaskview", "ndtaskview", "summary"}

var viewDDL = map[string]string{
	// runview assigns the 1-based sequential run number by time_began
	// order and carries the run-level timestamps.
	"runview": `
CREATE VIEW runview AS
SELECT w.run_id,
       (SELECT COUNT(*) FROM workflow w2 WHERE w2.time_began <= w.time_began) AS runnum,
       w.time_began                                                           AS began,
       w.time_completed                                                       AS completed,
       time((julianday(w.time_completed) - julianday(w.time_began)) * 86400,
            'unixepoch')                                                      AS run_elapsed
FROM workflow w`,

	// taskview covers the cached (memoizable) tasks, the normal case.
	"taskview": `
CREATE VIEW taskview AS
SELECT t.run_id,
       t.task_id,
       t.task_id         AS tasknum,
       t.task_func_name  AS function,
       t.task_fail_count AS fails,
       t.task_hashsum,
       t.task_stdout
FROM task t
WHERE t.task_hashsum IS NOT NULL`,

	// nctaskview lists tasks the engine never assigned a memoization
	// hash to.
	"nctaskview": `
CREATE VIEW nctaskview AS
SELECT rv.runnum,
       t.task_id,
       t.task_func_name AS function,
       t.task_stdout    AS stdout
FROM task t
JOIN runview rv ON (rv.run_id = t.run_id)
WHERE t.task_hashsum IS NULL`,

	// ndtaskview lists cached tasks that were never dispatched: they
	// have a hash but no try rows.
	"ndtaskview": `
CREATE VIEW ndtaskview AS
SELECT rv.runnum,
       t.task_id,
       t.task_func_name AS function,
       t.task_hashsum
FROM task t
JOIN runview rv ON (rv.run_id = t.run_id)
WHERE t.task_hashsum IS NOT NULL
  AND NOT EXISTS (SELECT 1
                  FROM try y
                  WHERE y.run_id = t.run_id
                    AND y.task_id = t.task_id)`,

	// summary is the one-row-per-task current-state join: for each task
	// keep the status event with the maximum timestamp among events of
	// its tries, alongside the try metadata for that event.
	"summary": `
CREATE VIEW summary AS
SELECT rv.runnum,
       t.run_id,
       t.task_id,
       t.task_id                AS tasknum,
       t.task_func_name         AS function,
       s.task_status_name       AS status,
       MAX(s.timestamp)         AS timestamp,
       t.task_fail_count        AS fails,
       y.try_id,
       y.hostname,
       y.task_try_time_launched AS launched,
       y.task_try_time_running  AS started,
       y.task_try_time_returned AS returned,
       t.task_stdout            AS stdout
FROM task t
JOIN try y ON (t.run_id = y.run_id AND t.task_id = y.task_id)
JOIN status s ON (y.run_id = s.run_id AND y.task_id = s.task_id AND y.try_id = s.try_id)
JOIN runview rv ON (rv.run_id = t.run_id)
GROUP BY t.run_id, t.task_id`,
}

// HasViews reports whether every required view is present in the database.
func (s *Store) HasViews(ctx context.Context) (bool, error) {
	views, err := s.SchemaList(ctx, "view")
	if err != nil {
		return false, err
	}

	present := make(map[string]bool, len(views))
	for _, v := range views {
		present[v] = true
	}
	for _, required := range RequiredViews {
		if !present[required] {
			return false, nil
		}
	}
	return true, nil
}

// ProvisionViews drops and recreates every required view. Safe to run
// against a database the engine is still writing; views are metadata only.
func (s *Store) ProvisionViews(ctx context.Context) error {
	log.Info().Str("db", s.path).Msg("Provisioning monitoring views")

	for _, name := range RequiredViews {
		if err := s.ExecDDL(ctx, "DROP VIEW IF EXISTS "+name); err != nil {
			return err
		}
		if err := s.ExecDDL(ctx, viewDDL[name]); err != nil {
			return err
		}
	}
	return nil
}
