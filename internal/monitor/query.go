package monitor

import (
	"strings"

	"github.com/guregu/null/v6"
)

// Filter narrows the task read-model result set. All set fields combine
// with AND. RunNum is resolved through the run index to an opaque run_id
// before any SQL is composed.
type Filter struct {
	RunNum   null.Int
	TaskNum  null.Int
	TaskID   null.Int
	Function null.String
	Status   null.String // a literal state name or a preset name
}

// filterColumns names the filterable columns as they appear in a
// particular query mode: bare aliases against the summary view, qualified
// base-table names in the history join.
type filterColumns struct {
	runID    string
	taskID   string
	function string
	status   string
}

var (
	summaryFilterCols = filterColumns{"run_id", "task_id", "function", "status"}
	historyFilterCols = filterColumns{"t.run_id", "t.task_id", "t.task_func_name", "s.task_status_name"}
)

// The sequential run number is derived from run_id during shaping, not
// selected here.
const summaryColumns = `
run_id,
task_id,
tasknum,
function,
status,
timestamp,
fails,
try_id,
hostname,
launched,
started,
returned,
stdout`

const historyColumns = `
t.run_id,
t.task_id,
t.task_id                AS tasknum,
t.task_func_name         AS function,
s.task_status_name       AS status,
s.timestamp              AS timestamp,
t.task_fail_count        AS fails,
y.try_id,
y.hostname,
y.task_try_time_launched AS launched,
y.task_try_time_running  AS started,
y.task_try_time_returned AS returned,
t.task_stdout            AS stdout`

const historySources = `
FROM task t
JOIN try y ON (t.run_id = y.run_id AND t.task_id = y.task_id)
JOIN status s ON (y.run_id = s.run_id AND y.task_id = s.task_id AND y.try_id = s.try_id)`

// whereClause renders the AND-combined filter conditions. runID is the
// already-resolved opaque run identifier, empty for "all runs".
func (f Filter) whereClause(runID string, vocab Vocabulary, cols filterColumns) (string, []any) {
	var conds []string
	var args []any

	if runID != "" {
		conds = append(conds, cols.runID+" = ?")
		args = append(args, runID)
	}
	if f.TaskNum.Valid {
		conds = append(conds, cols.taskID+" = ?")
		args = append(args, f.TaskNum.Int64)
	}
	if f.TaskID.Valid {
		conds = append(conds, cols.taskID+" = ?")
		args = append(args, f.TaskID.Int64)
	}
	if f.Function.Valid {
		conds = append(conds, cols.function+" = ?")
		args = append(args, f.Function.String)
	}
	if f.Status.Valid {
		states := vocab.Expand(f.Status.String)
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(states)), ", ")
		conds = append(conds, cols.status+" IN ("+placeholders+")")
		for _, s := range states {
			args = append(args, s)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conds, " AND "), args
}

// summaryQuery composes the one-row-per-task current-state query over the
// summary view.
func summaryQuery(f Filter, runID string, vocab Vocabulary) (string, []any) {
	where, args := f.whereClause(runID, vocab, summaryFilterCols)
	query := "SELECT " + summaryColumns + "\nFROM summary" + where + "\nORDER BY task_id ASC"
	return query, args
}

// historyQuery composes the one-row-per-status-event query over the base
// tables, every lifecycle transition visible.
func historyQuery(f Filter, runID string, vocab Vocabulary) (string, []any) {
	where, args := f.whereClause(runID, vocab, historyFilterCols)
	query := "SELECT " + historyColumns + historySources + where +
		"\nORDER BY t.task_id, s.timestamp ASC"
	return query, args
}

// recentQuery composes the newest-first activity query, capped at limit.
func recentQuery(limit int) (string, []any) {
	query := "SELECT " + historyColumns + historySources +
		"\nORDER BY s.timestamp DESC\nLIMIT ?"
	return query, []any{limit}
}
