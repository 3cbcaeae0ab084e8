// Package monitor is the read-model over the workflow engine's monitoring
// database: it indexes runs, composes the task summary/history queries,
// shapes the result rows for presentation and derives the status matrix
// and node usage tallies. Everything here is rebuilt per invocation and
// never writes to the observed log.
package monitor

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/TomGlanzman/Perp/internal/models"
	"github.com/TomGlanzman/Perp/internal/store"
)

// Monitor is the per-invocation context object: one open store handle, the
// run index built at startup, the status vocabulary, and the shaper
// carrying anomaly counts across a report. Torn down with Close when the
// report is finished.
type Monitor struct {
	store  *store.Store
	vocab  Vocabulary
	index  *RunIndex
	shaper *Shaper
	rows   []models.TaskRow // last summary-mode result set
}

// New opens the read model over an already-open store: it makes sure the
// helper views exist (provisioning them once when missing) and builds the
// run index.
func New(ctx context.Context, st *store.Store) (*Monitor, error) {
	ok, err := st.HasViews(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Warn().Msg("Monitoring database is missing the reporting views, provisioning them")
		if err := st.ProvisionViews(ctx); err != nil {
			return nil, err
		}
	}

	index, err := BuildRunIndex(ctx, st)
	if err != nil {
		return nil, err
	}

	return &Monitor{
		store:  st,
		vocab:  DefaultVocabulary(),
		index:  index,
		shaper: NewShaper(index),
	}, nil
}

// Close releases the store handle.
func (m *Monitor) Close() error { return m.store.Close() }

// Index returns the run index built at startup.
func (m *Monitor) Index() *RunIndex { return m.index }

// Vocab returns the status vocabulary in use.
func (m *Monitor) Vocab() Vocabulary { return m.vocab }

// Rows returns the most recent summary-mode result set, for aggregations
// that reuse the same rows a table was rendered from.
func (m *Monitor) Rows() []models.TaskRow { return m.rows }

// resolveRunID maps the filter's run number to an opaque run_id, with the
// bounds check happening before any task query. No run filter means no run
// constraint, not "the latest run".
func (m *Monitor) resolveRunID(f Filter) (string, error) {
	if !f.RunNum.Valid {
		return "", nil
	}
	run, err := m.index.Resolve(f.RunNum)
	if err != nil {
		return "", err
	}
	return run.RunID, nil
}

// TaskSummary returns one shaped row per task matching the filter, each
// reflecting the task's current state.
func (m *Monitor) TaskSummary(ctx context.Context, f Filter) ([]models.TaskRow, error) {
	runID, err := m.resolveRunID(f)
	if err != nil {
		return nil, err
	}

	query, args := summaryQuery(f, runID, m.vocab)
	var rows []models.TaskRow
	if err := m.store.Select(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	m.shaper.Shape(rows)
	m.rows = rows
	return rows, nil
}

// TaskHistory returns one shaped row per status event matching the filter,
// ordered by task id then timestamp ascending.
func (m *Monitor) TaskHistory(ctx context.Context, f Filter) ([]models.TaskRow, error) {
	runID, err := m.resolveRunID(f)
	if err != nil {
		return nil, err
	}

	query, args := historyQuery(f, runID, m.vocab)
	var rows []models.TaskRow
	if err := m.store.Select(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	m.shaper.Shape(rows)
	return rows, nil
}

// RecentStatus returns the newest limit status events across all runs,
// newest first.
func (m *Monitor) RecentStatus(ctx context.Context, limit int) ([]models.TaskRow, error) {
	query, args := recentQuery(limit)
	var rows []models.TaskRow
	if err := m.store.Select(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	m.shaper.Shape(rows)
	return rows, nil
}

// NonCachedTasks lists tasks the engine never assigned a memoization hash.
// The column set belongs to the view, so rows come back untyped.
func (m *Monitor) NonCachedTasks(ctx context.Context) ([]string, [][]any, error) {
	return m.store.Query(ctx, "SELECT * FROM nctaskview")
}

// NonDispatchedTasks lists cached tasks that never got a try.
func (m *Monitor) NonDispatchedTasks(ctx context.Context) ([]string, [][]any, error) {
	return m.store.Query(ctx, "SELECT * FROM ndtaskview")
}

// Matrix tallies summary rows into the function-by-state count matrix.
func (m *Monitor) Matrix(rows []models.TaskRow) *StatusMatrix {
	return TallyStatus(rows, m.vocab)
}

// Nodes tallies running tasks per execution host.
func (m *Monitor) Nodes(rows []models.TaskRow) *NodeUsage {
	return TallyNodes(rows)
}

// MissingRuntimes reports how many done tasks lacked a computable runtime
// so far in this invocation.
func (m *Monitor) MissingRuntimes() int { return m.shaper.MissingRuntimes() }
