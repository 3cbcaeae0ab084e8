package monitor

import (
	"github.com/rs/zerolog/log"

	"github.com/TomGlanzman/Perp/internal/models"
)

// TotalKey labels the synthetic totals row and column of a status matrix.
const TotalKey = "TOTAL"

// StatusMatrix tallies how many tasks of each function (task type) are in
// each lifecycle state, with per-function and per-state totals. Functions
// appear in first-seen order; the state columns are the vocabulary in
// declaration order.
type StatusMatrix struct {
	vocab     Vocabulary
	functions []string
	cells     map[string]map[string]int
	colTotals map[string]int
	total     int
	unknown   int
}

// TallyStatus builds the matrix in a single pass over summary-mode rows.
// A status outside the vocabulary is still counted, under the unknown
// bucket, and logged; the report always renders.
func TallyStatus(rows []models.TaskRow, vocab Vocabulary) *StatusMatrix {
	m := &StatusMatrix{
		vocab:     vocab,
		cells:     make(map[string]map[string]int),
		colTotals: make(map[string]int),
	}

	for _, row := range rows {
		status := row.Status
		if !vocab.Contains(status) {
			m.unknown++
			log.Warn().
				Str("status", status).
				Int64("task_id", row.TaskID).
				Str("function", row.Function).
				Msg("Status outside the known vocabulary, counting as unknown")
			status = "unknown"
		}

		counts, seen := m.cells[row.Function]
		if !seen {
			counts = make(map[string]int, len(vocab.states))
			m.cells[row.Function] = counts
			m.functions = append(m.functions, row.Function)
		}
		counts[status]++
		m.colTotals[status]++
		m.total++
	}

	return m
}

// Functions returns the task-type row keys in first-seen order.
func (m *StatusMatrix) Functions() []string {
	return append([]string(nil), m.functions...)
}

// States returns the state column keys in vocabulary order.
func (m *StatusMatrix) States() []string {
	return m.vocab.States()
}

// Count returns the number of tasks of the given function currently in the
// given state.
func (m *StatusMatrix) Count(function, state string) int {
	return m.cells[function][state]
}

// RowTotal returns the total task count for one function.
func (m *StatusMatrix) RowTotal(function string) int {
	total := 0
	for _, n := range m.cells[function] {
		total += n
	}
	return total
}

// ColTotal returns the total task count for one state across functions.
func (m *StatusMatrix) ColTotal(state string) int {
	return m.colTotals[state]
}

// GrandTotal returns the total number of tallied tasks.
func (m *StatusMatrix) GrandTotal() int { return m.total }

// UnknownCount returns how many rows carried an out-of-vocabulary status.
func (m *StatusMatrix) UnknownCount() int { return m.unknown }
