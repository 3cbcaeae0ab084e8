// Package report formats read-model results into text tables on standard
// output and runtime-distribution plots on disk. It is a presentation
// collaborator only; all derivation happens in the monitor package.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/guregu/null/v6"
	"github.com/olekukonko/tablewriter"

	"github.com/TomGlanzman/Perp/internal/models"
	"github.com/TomGlanzman/Perp/internal/monitor"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewWriter(w)
}

// FormatDuration renders a second count as hh:mm:ss, or an empty cell for
// an absent duration.
func FormatDuration(sec null.Int) string {
	if !sec.Valid {
		return ""
	}
	d := time.Duration(sec.Int64) * time.Second
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

func nullStr(s null.String) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func nullInt(n null.Int) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

// WorkflowSummary prints the run-level key/value summary table.
func WorkflowSummary(w io.Writer, run monitor.Run, isLatest bool, dbPath string) {
	fmt.Fprintf(w, "Workflow summary at %s\n==============================================\n",
		time.Now().Format("2006-01-02 15:04:05"))

	runNumTxt := strconv.Itoa(run.RunNum)
	if isLatest {
		runNumTxt += "    <<-most current run->>"
	}

	began := nullStr(monitor.NormalizeStamp(run.TimeBegan))
	if began == "" {
		began = "*pending*"
	}
	completed := nullStr(monitor.NormalizeStamp(run.TimeCompleted))
	if completed == "" {
		completed = "*pending*"
	}
	duration := FormatDuration(monitor.DiffSeconds(run.TimeBegan, run.TimeCompleted))
	if duration == "" {
		duration = "*pending*"
	}

	table := newTable(w)
	for _, kv := range [][]string{
		{"workflow name", nullStr(run.Name)},
		{"run num", runNumTxt},
		{"runinfo/NNN", fmt.Sprintf("%03d", run.RunNum-1)},
		{"run start", began},
		{"run end", completed},
		{"run duration", duration},
		{"tasks completed", strconv.Itoa(run.TasksCompleted + run.TasksFailed)},
		{"tasks completed: success", strconv.Itoa(run.TasksCompleted)},
		{"tasks completed: failed", strconv.Itoa(run.TasksFailed)},
		{"----------", "----------"},
		{"workflow user", run.User + "@" + run.Host},
		{"workflow rundir", filepath.Dir(filepath.Dir(run.RunDir))},
		{"MonitorDB", dbPath},
	} {
		table.Append(kv)
	}
	table.Render()
}

var taskHeaders = []string{
	"runnum", "tasknum", "task_id", "function", "status", "timestamp",
	"fails", "try_id", "hostname", "launched", "start", "waitTime",
	"ended", "runTime",
}

func taskCells(row models.TaskRow, extended bool) []string {
	cells := []string{
		strconv.Itoa(row.RunNum),
		strconv.FormatInt(row.TaskNum, 10),
		strconv.FormatInt(row.TaskID, 10),
		row.Function,
		row.Status,
		nullStr(row.Timestamp),
		strconv.Itoa(row.Fails),
		nullInt(row.TryID),
		nullStr(row.Hostname),
		nullStr(row.Launched),
		nullStr(row.Started),
		FormatDuration(row.WaitSec),
		nullStr(row.Returned),
		FormatDuration(row.RunSec),
	}
	if extended {
		cells = append(cells, row.LogDir, nullStr(row.Stdout))
	}
	return cells
}

// TaskTable prints task rows (summary or history mode). limit caps the
// printed rows when positive; the selection count always reflects the full
// result set.
func TaskTable(w io.Writer, rows []models.TaskRow, limit int, extended bool) {
	last := len(rows)
	if limit > 0 && limit < last {
		last = limit
	}

	headers := taskHeaders
	if extended {
		headers = append(append([]string(nil), taskHeaders...), "logdir", "stdout")
	}

	table := newTable(w)
	table.SetHeader(headers)
	for _, row := range rows[:last] {
		table.Append(taskCells(row, extended))
	}
	table.Render()
}

// StatusMatrix prints the function-by-state count matrix with row and
// column totals.
func StatusMatrix(w io.Writer, m *monitor.StatusMatrix) {
	fmt.Fprintln(w, "\nTask status matrix:")

	states := m.States()
	table := newTable(w)
	table.SetHeader(append(append([]string{"function"}, states...), monitor.TotalKey))

	for _, fn := range m.Functions() {
		cells := []string{fn}
		for _, state := range states {
			cells = append(cells, strconv.Itoa(m.Count(fn, state)))
		}
		cells = append(cells, strconv.Itoa(m.RowTotal(fn)))
		table.Append(cells)
	}

	totals := []string{monitor.TotalKey}
	for _, state := range states {
		totals = append(totals, strconv.Itoa(m.ColTotal(state)))
	}
	totals = append(totals, strconv.Itoa(m.GrandTotal()))
	table.Append(totals)
	table.Render()
}

// NodeUsage prints the running-tasks-per-host tally with footer counts.
// Nothing is printed when no tasks are running.
func NodeUsage(w io.Writer, u *monitor.NodeUsage) {
	if u.ActiveHosts() == 0 {
		return
	}

	fmt.Fprintln(w, "\nNode usage summary:")
	table := newTable(w)
	table.SetHeader([]string{"Node", "#running"})
	for _, host := range u.Hosts() {
		table.Append([]string{host, strconv.Itoa(u.Count(host))})
	}
	table.Render()
	fmt.Fprintf(w, "  Number of active nodes = %d\n", u.ActiveHosts())
	fmt.Fprintf(w, "  Number of running tasks = %d\n", u.Running())
}

// RunHistory prints one row per run, oldest first.
func RunHistory(w io.Writer, runs []monitor.Run) {
	table := newTable(w)
	table.SetHeader([]string{
		"RunNum", "workflow_name", "user", "host", "began", "completed",
		"RunDuration", "#tasks_good", "#tasks_bad", "rundir",
	})

	for _, run := range runs {
		completed := nullStr(monitor.NormalizeStamp(run.TimeCompleted))
		duration := FormatDuration(monitor.DiffSeconds(run.TimeBegan, run.TimeCompleted))
		if duration == "" {
			completed = "-> incomplete <-"
		}
		table.Append([]string{
			strconv.Itoa(run.RunNum),
			nullStr(run.Name),
			run.User,
			run.Host,
			nullStr(monitor.NormalizeStamp(run.TimeBegan)),
			completed,
			duration,
			strconv.Itoa(run.TasksCompleted),
			strconv.Itoa(run.TasksFailed),
			run.RunDir,
		})
	}
	table.Render()
}

// Generic prints an arbitrary result set, used for schema dumps and the
// oddball view listings whose column sets belong to the database.
func Generic(w io.Writer, cols []string, rows [][]any) {
	table := newTable(w)
	table.SetHeader(cols)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		table.Append(cells)
	}
	table.Render()
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
