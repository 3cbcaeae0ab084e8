package monitor

import (
	"context"

	"github.com/guregu/null/v6"
	"github.com/rs/zerolog/log"

	"github.com/TomGlanzman/Perp/internal/models"
	"github.com/TomGlanzman/Perp/internal/store"
)

// Run is one workflow execution together with its small sequential run
// number, assigned by time_began arrival order (1-based, gapless).
type Run struct {
	models.Workflow
	RunNum int
}

// RunIndex maps the engine's opaque run_id to the sequential run number
// and back. Built once per invocation from the full workflow table.
type RunIndex struct {
	runs  []Run
	byID  map[string]int
	byNum map[int]string
}

// BuildRunIndex scans the workflow table in ascending time_began order and
// numbers the runs as it goes.
func BuildRunIndex(ctx context.Context, st *store.Store) (*RunIndex, error) {
	var rows []models.Workflow
	query := `
SELECT run_id,
       workflow_name,
       workflow_version,
       time_began,
       time_completed,
       host,
       user,
       rundir,
       tasks_failed_count,
       tasks_completed_count
FROM workflow
ORDER BY time_began ASC`

	if err := st.Select(ctx, &rows, query); err != nil {
		return nil, err
	}

	ix := &RunIndex{
		runs:  make([]Run, 0, len(rows)),
		byID:  make(map[string]int, len(rows)),
		byNum: make(map[int]string, len(rows)),
	}
	for i, w := range rows {
		num := i + 1
		ix.runs = append(ix.runs, Run{Workflow: w, RunNum: num})
		ix.byID[w.RunID] = num
		ix.byNum[num] = w.RunID
	}

	log.Debug().Int("runs", len(ix.runs)).Msg("run index built")
	return ix, nil
}

// Len returns the number of indexed runs.
func (ix *RunIndex) Len() int { return len(ix.runs) }

// Min returns the smallest run number, or 0 when no runs exist.
func (ix *RunIndex) Min() int {
	if len(ix.runs) == 0 {
		return 0
	}
	return ix.runs[0].RunNum
}

// Max returns the largest run number, or 0 when no runs exist.
func (ix *RunIndex) Max() int {
	if len(ix.runs) == 0 {
		return 0
	}
	return ix.runs[len(ix.runs)-1].RunNum
}

// Runs returns every indexed run in run-number order.
func (ix *RunIndex) Runs() []Run {
	return append([]Run(nil), ix.runs...)
}

// NumToID resolves a run number to the engine's opaque run_id.
func (ix *RunIndex) NumToID(num int) (string, bool) {
	id, ok := ix.byNum[num]
	return id, ok
}

// IDToNum resolves an opaque run_id to its run number.
func (ix *RunIndex) IDToNum(id string) (int, bool) {
	num, ok := ix.byID[id]
	return num, ok
}

// Resolve returns the run a report should describe: the most recent run
// when runnum is null, the matching run when the number is in range, and a
// RunNotFoundError otherwise. The range check happens here, before any
// task-level query is composed.
func (ix *RunIndex) Resolve(runnum null.Int) (Run, error) {
	if len(ix.runs) == 0 {
		return Run{}, &RunNotFoundError{Requested: int(runnum.Int64)}
	}
	if !runnum.Valid {
		return ix.runs[len(ix.runs)-1], nil
	}

	n := int(runnum.Int64)
	if n < ix.Min() || n > ix.Max() {
		return Run{}, &RunNotFoundError{Requested: n, Min: ix.Min(), Max: ix.Max()}
	}
	return ix.runs[n-ix.Min()], nil
}
